package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/signalgraph/internal/config"
	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┌─┐┌┐┌┌─┐┬  ┌─┐┬─┐┌─┐┌─┐┬ ┬
  └─┐││ ┬│││├─┤│  │ ┬├┬┘├─┤├─┘├─┤
  └─┘┴└─┘┘└┘┴ ┴┴─┘└─┘┴└─┴ ┴┴  ┴ ┴
`

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		sgerrors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "signalgraph",
		Short: "Fine-grained reactive graphs for Go",
		Long: `signalgraph is a fine-grained reactive engine for Go.

Signals hold state, effects re-run when the signals they read change,
and memos derive new signals from old ones. The CLI runs a
walkthrough of the engine and serves a live inspector for it:

  • demo     run the counter walkthrough
  • serve    tick a demo graph and serve the inspector
  • explain  describe error codes
  • version  print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default ./signalgraph.json if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return sgerrors.FromError(err, "E401")
	})

	rootCmd.AddCommand(
		demoCmd(flags),
		serveCmd(flags),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig resolves the configuration for a command. Without --config a
// missing signalgraph.json in the working directory means defaults.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
		var sgErr *sgerrors.Error
		if errors.As(err, &sgErr) && sgErr.Code == "E202" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, sgerrors.New("E401").
				WithDetailf("--log-level %q", flags.logLevel).
				Wrap(err)
		}
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
