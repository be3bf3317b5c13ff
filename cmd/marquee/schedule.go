package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/marquee/marquee/internal/pipeline"
)

func newScheduleCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline periodically on the configured cron expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := cmdCtx.cfg
			log := cmdCtx.log

			p, err := pipeline.New(cfg, log.Logger)
			if err != nil {
				return err
			}
			defer p.Close()

			runOnce := func() {
				summary, err := p.Run(ctx, nil)
				if err != nil {
					log.Error().Err(err).Msg("Scheduled run failed")
					return
				}
				log.Info().Int("totalMovies", summary.TotalMovies).Msg("Scheduled run finished")
			}

			scheduler, err := gocron.NewScheduler()
			if err != nil {
				return fmt.Errorf("failed to create scheduler: %w", err)
			}

			_, err = scheduler.NewJob(
				gocron.CronJob(cfg.Schedule.Cron, false),
				gocron.NewTask(runOnce),
			)
			if err != nil {
				return fmt.Errorf("failed to schedule job (cron %q): %w", cfg.Schedule.Cron, err)
			}

			scheduler.Start()
			log.Info().Str("cron", cfg.Schedule.Cron).Msg("Scheduler started")

			if cfg.Schedule.RunOnStart {
				runOnce()
			}

			<-ctx.Done()
			log.Info().Msg("Shutting down scheduler")
			if err := scheduler.Shutdown(); err != nil {
				return err
			}
			return context.Cause(ctx)
		},
	}

	return cmd
}
