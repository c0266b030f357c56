package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/legalese/internal/files"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/oukeidos/legalese/internal/nativemsg"
	"github.com/oukeidos/legalese/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	executablePath = os.Executable
	userHomeDir    = os.UserHomeDir
)

type nativeHostOptions struct {
	allowEnv bool
}

type installOptions struct {
	browser     string
	extensionID string
	dir         string
	print       bool
	yes         bool
}

func newNativeHostCmd(root *rootOptions) *cobra.Command {
	opts := nativeHostOptions{}
	cmd := &cobra.Command{
		Use:   "native-host",
		Short: "Serve the browser extension over native messaging (stdin/stdout)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNativeHost(cmd, root, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from environment variables")

	cmd.AddCommand(newNativeHostInstallCmd())
	return cmd
}

func runNativeHost(cmd *cobra.Command, root *rootOptions, opts *nativeHostOptions) error {
	t, err := newTranslator(root.cfg)
	if err != nil {
		return err
	}
	p := root.cfg.Provider
	host := nativemsg.NewHost(t, func() string {
		key, _ := getKey(p, opts.allowEnv)
		return key
	})

	ctx, stop := signalContext()
	defer stop()

	logger.Debug("Native host started", "provider", p, "model", root.cfg.Model)
	return host.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

func newNativeHostInstallCmd() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register this binary as the extension's native messaging host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNativeHostInstall(cmd, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.browser, "browser", nativemsg.BrowserChrome, "Browser (chrome, chromium or firefox)")
	cmd.Flags().StringVar(&opts.extensionID, "extension-id", "", "Extension id allowed to connect")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Manifest directory (default: the browser's per-user directory)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "Print the manifest instead of writing it")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite an existing manifest without asking")
	_ = cmd.MarkFlagRequired("extension-id")
	return cmd
}

func runNativeHostInstall(cmd *cobra.Command, opts *installOptions) error {
	exe, err := executablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	m, err := nativemsg.NewManifest(opts.browser, exe, opts.extensionID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	if opts.print {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	dir := opts.dir
	if dir == "" {
		home, err := userHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		if dir, err = nativemsg.ManifestDir(opts.browser, runtime.GOOS, home); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, nativemsg.HostName+".json")
	if files.Exists(path) {
		ok, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("operation cancelled by user")
		}
	}
	if err := files.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s manifest for %s at %s\n", nativemsg.HostName, opts.browser, path)
	return nil
}
