package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/signalgraph/pkg/middleware"
	"github.com/vango-dev/signalgraph/pkg/reactive"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the counter walkthrough",
		Long: `Run a small counter graph and print what every write re-runs.

The graph has one signal (count), one memo (double = count * 2) and one
effect printing both. The walkthrough increments count, then sets it to
10. Effects re-run once per notification, so the printer runs both
for the write to count and for the memo's write to double.

Examples:
  signalgraph demo
  signalgraph demo --json
  signalgraph demo --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
			return runDemo(cmd.OutOrStdout(), logger, cfg.Graph.MaxDepth, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the final graph snapshot as JSON")

	return cmd
}

// runDemo builds the counter graph and drives it through its steps.
func runDemo(w io.Writer, logger *slog.Logger, maxDepth int, asJSON bool) error {
	g := reactive.New(
		reactive.WithLogger(logger),
		reactive.WithMaxDepth(maxDepth),
		reactive.WithHooks(middleware.Logger(logger)),
	)

	count := reactive.NewSignal(g, 0, reactive.WithLabel("count"))
	double := reactive.NewMemo(g, func() int {
		return count.Get() * 2
	}, reactive.WithLabel("double"))
	printer := g.Effect(func() {
		fmt.Fprintf(w, "  count=%d double=%d\n", count.Get(), double.Get())
	}, reactive.WithLabel("printer"))

	info(w, "count.Update(n + 1)")
	count.Update(func(n int) int { return n + 1 })

	info(w, "count.Set(10)")
	count.Set(10)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g.Snapshot())
	}

	success(w, "printer ran %d times, double = %d", g.Runs(printer), double.Peek())
	return nil
}
