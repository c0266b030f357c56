package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oukeidos/legalese/internal/cleanup"
	"github.com/oukeidos/legalese/internal/config"
	"github.com/oukeidos/legalese/internal/files"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/nativemsg"
	"github.com/oukeidos/legalese/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// rootOptions carries global flags and the loaded configuration to subcommands.
type rootOptions struct {
	configFile string
	logFile    string
	debug      bool

	v   *viper.Viper
	cfg config.Config
}

func execute() {
	args := os.Args[1:]
	if nativemsg.IsBrowserLaunch(args) {
		args = []string{"native-host"}
	}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.New()}
	translateOpts := translateOptions{}

	cmd := &cobra.Command{
		Use:   "legalese",
		Short: "Translate legal text into plain language",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && translateOpts.file == "" && isTerminal(int(os.Stdin.Fd())) {
				if hasAnyFlagSet(cmd) {
					_ = cmd.Usage()
					return fmt.Errorf("text to translate is required")
				}
				return cmd.Help()
			}
			if len(args) > 0 && isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runTranslate(cmd, args, opts, &translateOpts)
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Path to a config file (YAML, TOML or JSON)")
	pf.String("provider", config.DefaultProvider, "Backend provider (anthropic or gemini)")
	pf.String("model", "", "Model name (default depends on provider)")
	pf.String("endpoint", "", "Override the backend API root URL")
	pf.Int("max-tokens", config.DefaultMaxTokens, "Maximum tokens in a backend reply")
	pf.String("timeout", config.DefaultTimeout.String(), "Backend request timeout (e.g. 30s)")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")
	pf.StringVar(&opts.logFile, "log-file", "", "Path to save machine-readable JSONL logs")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	addTranslateFlags(cmd, &translateOpts)

	cmd.AddCommand(
		newAboutCmd(),
		newVersionCmd(),
		newDisclaimerCmd(),
		newTranslateCmd(opts),
		newServeCmd(opts),
		newNativeHostCmd(opts),
		newModelsCmd(opts),
		newEnvCmd(opts),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

// load resolves configuration from file, environment and flags, then sets up logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if err := config.BindFlags(o.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(o.v, o.configFile)
	if err != nil {
		return err
	}
	if o.debug {
		cfg.LogLevel = "debug"
	}
	o.cfg = cfg

	var logFileW io.Writer
	if o.logFile != "" {
		if err := files.RejectSymlinkPath(o.logFile); err != nil {
			return err
		}
		f, err := os.OpenFile(o.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}

	format := logger.FormatPretty
	if cfg.LogFormat == "json" {
		format = logger.FormatJSON
	}
	logger.Init(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: format,
		Output: cmd.ErrOrStderr(),
		File:   logFileW,
	})
	logger.Debug("Configuration loaded", "provider", cfg.Provider, "model", cfg.Model, "timeout", cfg.Timeout)
	return nil
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
