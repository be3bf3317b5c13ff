package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marquee/marquee/internal/output"
	"github.com/marquee/marquee/internal/pipeline"
)

func newScrapeCommand(cmdCtx *commandContext) *cobra.Command {
	var sources []string
	var noEnrich bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape-merge-enrich pass and write the feed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := cmdCtx.cfg
			if noEnrich {
				cfg.OMDB.Enabled = false
			}

			p, err := pipeline.New(cfg, cmdCtx.log.Logger)
			if err != nil {
				return err
			}
			defer p.Close()

			summary, err := p.Run(ctx, sources)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sources, "sources", nil, "Sources to scrape (default: configured set)")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Disable OMDb enrichment for this run")

	return cmd
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	cmd.Printf("Total movies: %d\n", summary.TotalMovies)
	for _, result := range summary.Results {
		line := fmt.Sprintf("  %s: %d movies (%s)", result.Source, result.MovieCount, result.Status)
		if result.Status == output.StatusFailed && result.Error != "" {
			line += " - " + result.Error
		}
		cmd.Println(line)
	}
}
