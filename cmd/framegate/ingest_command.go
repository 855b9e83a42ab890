package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"framegate/internal/ingest"
	"framegate/internal/logging"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <key>",
		Short: "Import an uploaded DICOM object into the metadata store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cl, err := ctx.dialClients(cmd.Context())
			if err != nil {
				return err
			}

			jobStore, err := ingest.OpenStore(cfg.Ingest.StateDir)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer jobStore.Close()

			ingestor := ingest.NewIngestor(cl.objects, cl.sets, jobStore,
				cfg.ObjectStore.OutputBucket, cfg.ObjectStore.ImportRoleARN, logging.NewNop())
			job, err := ingestor.Ingest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "import job %s (%s) started for %s\n",
				job.JobID, job.JobName, job.SourceKey)
			fmt.Fprintf(cmd.OutOrStdout(), "poll with: framegate jobs %s\n", job.JobID)
			return nil
		},
	}
}
