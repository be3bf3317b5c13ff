package main

import (
	"github.com/spf13/cobra"

	"github.com/marquee/marquee/internal/scraper"
)

func newSourcesCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List configured source sites and their venue mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			definitions, err := scraper.LoadDefinitions(cmdCtx.cfg.Sources.Dir)
			if err != nil {
				return err
			}

			enabled := make(map[string]bool, len(cmdCtx.cfg.Sources.Enabled))
			for _, id := range cmdCtx.cfg.Sources.Enabled {
				enabled[id] = true
			}

			for _, id := range scraper.SourceIDs(definitions) {
				def := definitions[id]
				state := "disabled"
				if enabled[id] {
					state = "enabled"
				}
				cmd.Printf("%s (%s) - %s\n", id, state, def.Name)
				cmd.Printf("  base URL: %s\n", def.BaseURL)
				cmd.Printf("  venues: %d mapped, fallback prefix %s\n", len(def.Venues), def.UnknownPrefix)
			}
			return nil
		},
	}

	return cmd
}
