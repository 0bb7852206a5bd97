package main

import (
	"slices"

	"github.com/lorenzotomasdiez/crossfire/internal/models"
	"github.com/lorenzotomasdiez/crossfire/internal/output"
	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known models by provider; * marks models usable right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configured, _ := cmd.Flags().GetBool("configured")
			keyed := map[string]bool{}
			for _, m := range a.registry.Configured(a.keys()) {
				keyed[m.ID] = true
			}

			router := a.router()
			enabled := router.Enabled()
			usable := func(m models.Model) bool {
				return router.Supports(m.ID) && router.CheckUsable(m.ID) == nil
			}

			printer := output.NewPrinter(a.out)
			for _, p := range models.Providers() {
				var list []models.Model
				for _, id := range a.registry.ByProvider(p) {
					if configured && !keyed[id] {
						continue
					}
					m, _ := a.registry.Lookup(id)
					list = append(list, m)
				}
				if len(list) == 0 {
					continue
				}
				printer.ProviderHeader(p, slices.Contains(enabled, p))
				printer.Models(list, usable)
			}
			return nil
		},
	}
	cmd.Flags().Bool("configured", false, "Only list models whose provider has an API key")
	return cmd
}
