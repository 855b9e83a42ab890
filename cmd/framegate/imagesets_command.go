package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"framegate/internal/api"
	"framegate/internal/textutil"
)

func newImageSetsCommand(ctx *commandContext) *cobra.Command {
	var maxResults int32
	var nextToken string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "imagesets",
		Short: "List image sets in the metadata store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.dialClients(cmd.Context())
			if err != nil {
				return err
			}

			page, err := cl.sets.List(cmd.Context(), maxResults, nextToken)
			if err != nil {
				return err
			}

			if asJSON || !stdoutIsTerminal() {
				return writeJSON(cmd, api.FromListPage(page))
			}

			rows := make([][]string, 0, len(page.ImageSets))
			for _, set := range page.ImageSets {
				rows = append(rows, []string{
					set.ImageSetID,
					textutil.FormatPersonName(set.PatientName),
					set.PatientID,
					textutil.FormatStudyDate(set.StudyDate),
					set.StudyDescription,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Image Set", "Patient", "Patient ID", "Study Date", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if page.NextToken != "" {
				fmt.Fprintf(out, "more results: --token %s\n", page.NextToken)
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&maxResults, "max", 0, "Maximum results per page")
	cmd.Flags().StringVar(&nextToken, "token", "", "Pagination token from a previous page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	return cmd
}
