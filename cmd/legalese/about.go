package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/legalese/internal/licenses"
	"github.com/oukeidos/legalese/internal/translation"
	"github.com/oukeidos/legalese/internal/version"
	"github.com/spf13/cobra"
)

var aboutSurfaces = []string{
	"legalese translate      one document from an argument, --file or stdin",
	"legalese serve          HTTP endpoint (the same handler runs on AWS Lambda)",
	"legalese native-host    browser extension host over native messaging",
}

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Describe what legalese does and how to run it",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "legalese %s: legal text rewritten in plain language\n", version.Version)
			fmt.Fprintln(out, "https://github.com/oukeidos/legalese")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Each translation names the document type, scores its risk from",
				fmt.Sprintf("%d to %d", translation.MinRiskScore, translation.MaxRiskScore),
				"and lists clauses worth a second look.")
			levels := []string{
				string(translation.LevelSimple),
				string(translation.LevelGeneral),
				string(translation.LevelProfessional),
			}
			fmt.Fprintf(out, "Reading levels: %s.\n", strings.Join(levels, ", "))
			fmt.Fprintln(out, "Without an API key the built-in heuristic answers in demo mode.")
			fmt.Fprintln(out)
			for _, s := range aboutSurfaces {
				fmt.Fprintln(out, "  "+s)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, licenses.ShortNotice())
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
