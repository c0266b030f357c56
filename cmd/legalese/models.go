package main

import (
	"fmt"

	"github.com/oukeidos/legalese/internal/metadata"
	"github.com/spf13/cobra"
)

func newModelsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List supported models and pricing",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported Models:")
			for _, m := range metadata.Models {
				marker := " "
				if m.Provider == root.cfg.Provider && m.ID == root.cfg.Model {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-10s %-28s %-18s $%.2f in / $%.2f out per 1M tokens\n",
					marker, m.Provider, m.ID, m.Label, m.InputPerMillion, m.OutputPerMillion)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
