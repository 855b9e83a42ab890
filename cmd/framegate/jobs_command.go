package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"framegate/internal/api"
	"framegate/internal/ingest"
	"framegate/internal/logging"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "jobs [job-id]",
		Short: "List tracked import jobs or poll one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			jobStore, err := ingest.OpenStore(cfg.Ingest.StateDir)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer jobStore.Close()

			if len(args) == 1 {
				cl, err := ctx.dialClients(cmd.Context())
				if err != nil {
					return err
				}
				ingestor := ingest.NewIngestor(cl.objects, cl.sets, jobStore,
					cfg.ObjectStore.OutputBucket, cfg.ObjectStore.ImportRoleARN, logging.NewNop())
				job, err := ingestor.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, jobPayload(job))
			}

			jobs, err := jobStore.ListJobs(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON || !stdoutIsTerminal() {
				payload := api.JobsResponse{Jobs: make([]api.JobResponse, 0, len(jobs))}
				for i := range jobs {
					payload.Jobs = append(payload.Jobs, jobPayload(&jobs[i]))
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				submitted := ""
				if !job.SubmittedAt.IsZero() {
					submitted = job.SubmittedAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{job.JobID, job.JobName, job.Status, job.SourceKey, submitted})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Job ID", "Name", "Status", "Source", "Submitted"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func jobPayload(job *ingest.Job) api.JobResponse {
	return api.JobResponse{
		JobID:       job.JobID,
		JobName:     job.JobName,
		Status:      job.Status,
		Message:     job.Message,
		SourceKey:   job.SourceKey,
		ImportKey:   job.ImportKey,
		SubmittedAt: job.SubmittedAt,
	}
}
