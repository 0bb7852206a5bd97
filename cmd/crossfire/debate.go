package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/lorenzotomasdiez/crossfire/internal/debate"
	"github.com/lorenzotomasdiez/crossfire/internal/export"
	"github.com/lorenzotomasdiez/crossfire/internal/output"
	"github.com/spf13/cobra"
)

func newDebateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debate",
		Short: "Run a debate between two models on a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebate(cmd, a)
		},
	}
	cmd.Flags().String("topic", "", "Debate topic (required)")
	cmd.Flags().String("pro", "gemini-2.5-flash", "Model arguing for the motion")
	cmd.Flags().String("con", "gemini-2.5-pro", "Model arguing against the motion")
	cmd.Flags().String("output-dir", "", "Directory for the exported transcript (default from config)")
	cmd.Flags().Bool("html", false, "Also export an HTML rendering of the transcript")
	cmd.MarkFlagRequired("topic")
	return cmd
}

func runDebate(cmd *cobra.Command, a *app) error {
	topic, _ := cmd.Flags().GetString("topic")
	pro, _ := cmd.Flags().GetString("pro")
	con, _ := cmd.Flags().GetString("con")

	outputDir := a.cfg.OutputDir
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		outputDir = dir
	}
	withHTML := a.cfg.HTML
	if cmd.Flags().Changed("html") {
		withHTML, _ = cmd.Flags().GetBool("html")
	}

	cfg := debate.Config{Topic: topic, ProModel: pro, ConModel: con}
	router := a.router()
	if err := debate.ValidateConfig(cfg, router); err != nil {
		return err
	}

	// Setup context with Ctrl+C cancellation
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	printer := output.NewPrinter(a.out)
	driver := debate.NewDriver(router,
		debate.WithTurnDelay(a.cfg.TurnDelay),
		debate.WithLogger(a.logger.Named("debate")),
	)
	total := driver.Snapshot().Total
	done := 0
	driver.OnPhase = printer.Phase
	driver.OnTurnStart = printer.Thinking
	driver.OnTurn = func(e debate.Entry) {
		done++
		printer.Entry(done, total, e)
	}

	if err := driver.Start(cfg); err != nil {
		return err
	}
	printer.Header(cfg)

	writer := export.NewWriter(outputDir, a.logger.Named("export"))

	if err := driver.Run(ctx); err != nil {
		st := driver.Snapshot()
		if st.Status == debate.Failed {
			printer.Error(st.LastError)
			// Keep what was said before the failure.
			if len(st.Entries) > 0 {
				paths, err := writer.Write(*st.Config, st.Entries, withHTML)
				if err != nil {
					return err
				}
				printer.Saved(paths)
			}
			return errReported
		}
		if errors.Is(err, ctx.Err()) {
			return fmt.Errorf("debate interrupted after %d of %d turns", st.Position, st.Total)
		}
		return err
	}

	st := driver.Snapshot()
	paths, err := writer.Write(*st.Config, st.Entries, withHTML)
	if err != nil {
		return err
	}
	printer.Finished(paths)
	return nil
}
