package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"framegate/internal/daemon"
	"framegate/internal/ingest"
	"framegate/internal/logging"
	"framegate/internal/objectstore"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the framegate daemon and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: os.Stdout,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			cl, err := ctx.dialClients(signalCtx)
			if err != nil {
				return fmt.Errorf("init aws clients: %w", err)
			}

			jobStore, err := ingest.OpenStore(cfg.Ingest.StateDir)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer jobStore.Close()

			components := daemon.Components{
				Resolver: buildResolver(cfg, cl, logger),
				Sets:     cl.sets,
				Presign:  objectstore.NewIssuer(cl.objects, logger),
				Imports: ingest.NewIngestor(cl.objects, cl.sets, jobStore,
					cfg.ObjectStore.OutputBucket, cfg.ObjectStore.ImportRoleARN, logger),
			}

			d, err := daemon.New(cfg, components, logger)
			if err != nil {
				return err
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			d.Stop()
			return nil
		},
	}
}
