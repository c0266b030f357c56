package main

import (
	"errors"
	"fmt"

	"github.com/oukeidos/legalese/internal/licenses"
	"github.com/spf13/cobra"
)

func newDisclaimerCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "disclaimer",
		Short: "Show the not-legal-advice disclaimer",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, licenses.ShortNotice())
				return err
			}
			text := licenses.DisclaimerText()
			if text == "" {
				return errors.New("embedded disclaimer is empty")
			}
			_, err := fmt.Fprint(out, text)
			return err
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the one-line notice shown under translations")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
