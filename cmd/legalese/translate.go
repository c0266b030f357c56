package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oukeidos/legalese/internal/apperrors"
	"github.com/oukeidos/legalese/internal/files"
	"github.com/oukeidos/legalese/internal/licenses"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/prompt"
	"github.com/oukeidos/legalese/internal/translation"
	"github.com/spf13/cobra"
)

// maxInputBytes matches the request body limit of the hosted function.
const maxInputBytes = 1 << 20

type translateOptions struct {
	level    string
	file     string
	output   string
	asJSON   bool
	yes      bool
	allowEnv bool
	envOnly  bool
	demo     bool
	fallback bool
}

func newTranslateCmd(root *rootOptions) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate legal text into plain language",
		Long: "Translate legal text into plain language.\n\n" +
			"Text is taken from the arguments, from --file, or from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, root, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVarP(&opts.level, "level", "l", string(translation.LevelGeneral), "Reading level (simple, general or professional)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the document from a text file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite the output file without asking")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for the API key")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Skip the backend and use the built-in heuristic translation")
	cmd.Flags().BoolVar(&opts.fallback, "fallback", false, "Show the heuristic translation when the backend is unavailable")
}

func runTranslate(cmd *cobra.Command, args []string, root *rootOptions, opts *translateOptions) error {
	if opts.envOnly && opts.demo {
		return fmt.Errorf("--env-only and --demo cannot be used together")
	}

	text, err := readSourceText(cmd, args, opts.file)
	if err != nil {
		return err
	}
	level := translation.ParseReadingLevel(opts.level)
	if !strings.EqualFold(strings.TrimSpace(opts.level), string(level)) {
		logger.Warn("Unknown reading level; using general", "level", opts.level)
	}

	key := ""
	if !opts.demo {
		var source string
		key, source, err = resolveAPIKey(root.cfg.Provider, opts.allowEnv, opts.envOnly)
		switch {
		case errors.Is(err, errNoAPIKey):
			logger.Warn("No API key found; using demo mode", "provider", root.cfg.Provider, "env", opts.allowEnv)
		case err != nil:
			return err
		default:
			logger.Info("Using API Key", "provider", root.cfg.Provider, "source", source)
		}
	}

	t, err := newTranslator(root.cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	res, err := t.Translate(ctx, translation.Request{
		SourceText:   text,
		ReadingLevel: level,
		Credential:   key,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.KindMissingInput) {
			return fmt.Errorf("text to translate is required")
		}
		if !opts.fallback || !apperrors.Is(err, apperrors.KindBackendUnavailable) {
			return err
		}
		logger.Warn("Backend unavailable; showing heuristic translation", "error", err)
		fb := translation.Heuristic(text, level)
		fb.Demo = true
		res = &fb
	}

	var out strings.Builder
	if opts.asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		out.Write(data)
		out.WriteByte('\n')
	} else {
		writeResultText(&out, res)
	}

	if opts.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out.String())
		return err
	}
	return writeOutputFile(opts.output, out.String(), opts.yes)
}

// readSourceText picks the document from args, a file, or stdin, in that order.
func readSourceText(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("pass the text as arguments or with --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		return files.ReadTextFile(file, maxInputBytes)
	}
	if isTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("text to translate is required")
	}
	return files.ReadText(cmd.InOrStdin(), maxInputBytes)
}

func writeResultText(w io.Writer, res *translation.Result) {
	fmt.Fprintf(w, "Document type: %s\n", res.DocumentType)
	fmt.Fprintf(w, "Risk: %d/10 (%s)\n", res.RiskScore, res.RiskLevel)
	if res.Demo {
		fmt.Fprintln(w, "Demo mode: built-in heuristic, not a translation of this exact text.")
	}
	fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(res.Translation))
	if len(res.Concerns) > 0 {
		fmt.Fprintln(w, "\nConcerns:")
		for _, c := range res.Concerns {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	fmt.Fprintf(w, "\n%s\n", licenses.ShortNotice())
}

func writeOutputFile(path, content string, force bool) error {
	if err := files.RejectSymlinkPath(path); err != nil {
		return err
	}
	if files.Exists(path) {
		ok, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, force)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("operation cancelled by user")
		}
	}
	if err := files.AtomicWrite(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Result saved", "path", path)
	return nil
}
