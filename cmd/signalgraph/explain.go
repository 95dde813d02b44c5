package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sgerrors "github.com/vango-dev/signalgraph/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe error codes",
		Long: `Describe the error codes signalgraph reports.

Without an argument, lists every code with its message.

Examples:
  signalgraph explain
  signalgraph explain E101`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range sgerrors.GetAllCodes() {
					tmpl, _ := sgerrors.GetTemplate(code)
					fmt.Fprintf(w, "  %s  %-9s %s\n", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			if _, ok := sgerrors.GetTemplate(code); !ok {
				return sgerrors.New("E401").
					WithDetailf("unknown error code %q", args[0]).
					WithSuggestion("Run `signalgraph explain` to list codes")
			}
			fmt.Fprintln(w, sgerrors.New(code).FormatCompact())
			return nil
		},
	}
}
