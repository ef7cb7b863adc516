package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lectern/internal/pipeline"
	"lectern/internal/progress"
	"lectern/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Convert extraction documents as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("watch directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("watch target %s is not a directory", dir)
			}

			p, err := pipeline.New(pipeline.Options{
				Config: cfg,
				Logger: logger,
				Progress: progress.Func(func(message string) {
					fmt.Fprintln(cmd.OutOrStdout(), message)
				}),
			})
			if err != nil {
				return err
			}

			handler := func(runCtx context.Context, path string) error {
				result, err := p.Run(runCtx, path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (ctrl-c to stop)\n", dir)
			err = watcher.New(dir, handler, logger).Watch(runCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	return cmd
}
