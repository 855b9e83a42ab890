package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"framegate/internal/api"
	"framegate/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and external dependency availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			status, daemonErr := fetchDaemonStatus(cfg.Server.APIBind)
			if daemonErr != nil {
				// Daemon unreachable: report local dependency availability.
				status = &api.StatusResponse{
					DatastoreID: cfg.Datastore.DatastoreID,
					Bucket:      cfg.ObjectStore.Bucket,
				}
				for _, dep := range deps.CheckBinaries(deps.Default(cfg.TranscodeBinary())) {
					status.Dependencies = append(status.Dependencies, api.DependencyStatus{
						Name:        dep.Name,
						Command:     dep.Command,
						Description: dep.Description,
						Optional:    dep.Optional,
						Available:   dep.Available,
						Detail:      dep.Detail,
					})
				}
			}

			if asJSON || !stdoutIsTerminal() {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "daemon running: %s\n", yesNo(status.Running))
			if daemonErr != nil {
				fmt.Fprintf(out, "daemon: not reachable at %s\n", cfg.Server.APIBind)
			} else {
				fmt.Fprintf(out, "pid: %d\n", status.PID)
			}
			fmt.Fprintf(out, "datastore: %s\n", status.DatastoreID)
			fmt.Fprintf(out, "bucket: %s\n", status.Bucket)

			rows := make([][]string, 0, len(status.Dependencies))
			for _, dep := range status.Dependencies {
				rows = append(rows, []string{dep.Name, dep.Command, yesNo(dep.Available), dep.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Available", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}

func fetchDaemonStatus(bind string) (*api.StatusResponse, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get("http://" + bind + "/api/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}
	var status api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
