package main

import (
	"fmt"

	"github.com/lorenzotomasdiez/crossfire/internal/credentials"
	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/lorenzotomasdiez/crossfire/internal/output"
	"github.com/spf13/cobra"
)

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> <key>",
		Short: "Store the API key for a provider (gemini, openai, deepseek, kimi)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			if err := a.creds.Save(a.creds.With(string(p), args[1])); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s key %s\n", p.DisplayName(), credentials.Mask(a.creds.Get(string(p))))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <provider>",
		Short: "Delete the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProvider(args[0])
			if err != nil {
				return err
			}
			keys := a.creds.Snapshot()
			delete(keys, string(p))
			if err := a.creds.Save(keys); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s key\n", p.DisplayName())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show configured API keys, redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := a.creds.Masked()
			for name, secret := range masked {
				if secret == "" {
					delete(masked, name)
				}
			}
			for name, secret := range a.cfg.EnvKeys {
				if _, stored := masked[name]; !stored {
					masked[name] = credentials.Mask(secret) + " (environment)"
				}
			}
			output.NewPrinter(a.out).Keys(masked, a.store.Path())
			return nil
		},
	})
	return cmd
}

func parseProvider(name string) (models.Provider, error) {
	p, ok := models.ParseProvider(name)
	if !ok {
		return "", fmt.Errorf("unknown provider %q (want gemini, openai, deepseek or kimi)", name)
	}
	return p, nil
}
