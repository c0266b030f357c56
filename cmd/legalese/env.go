package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/legalese/internal/auth"
	"github.com/oukeidos/legalese/internal/prompt"
	"github.com/spf13/cobra"
)

type envOptions struct {
	yes bool
}

func newEnvCmd(root *rootOptions) *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage API keys in OS Keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, root)
		},
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)

	cmd.AddCommand(
		newEnvSetupCmd(root, &opts),
		newEnvDeleteCmd(root),
		newEnvStatusCmd(root),
	)
	return cmd
}

func newEnvSetupCmd(root *rootOptions, opts *envOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save API key to keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvSetup(cmd, root, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Replace a stored key without asking")
	return cmd
}

func newEnvDeleteCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete key from keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvDelete(cmd, root)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvStatusCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show key status (default if no action given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, root)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runEnvSetup(cmd *cobra.Command, root *rootOptions, opts *envOptions) error {
	p := root.cfg.Provider
	if getStatus(p) {
		ok, err := prompt.DefaultConfirmer().ConfirmReplaceKey(p, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("operation cancelled by user")
		}
	}

	promptKey, err := promptForKey(fmt.Sprintf("%s API Key: ", providerLabel(p)))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key := strings.TrimSpace(promptKey)
	if key == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := saveKey(p, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", p)
	return nil
}

func runEnvDelete(cmd *cobra.Command, root *rootOptions) error {
	p := root.cfg.Provider
	if err := deleteKey(p); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", p)
	return nil
}

func runEnvStatus(cmd *cobra.Command, root *rootOptions) error {
	p := root.cfg.Provider
	out := cmd.OutOrStdout()

	if getStatus(p) {
		fmt.Fprintf(out, "%s API Key: Found (source=%s)\n", p, auth.SourceKeychain)
		return nil
	}
	if envKey, ok := getEnvKey(p); ok && envKey != "" {
		fmt.Fprintf(out, "%s API Key: Found (source=%s %s; disabled by default, use --allow-env)\n", p, auth.SourceEnv, auth.EnvVar(p))
		return nil
	}
	fmt.Fprintf(out, "%s API Key: Not Found (keychain empty, %s not set; translations run in demo mode)\n", p, auth.EnvVar(p))
	return nil
}
