package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framegate/internal/api"
	"framegate/internal/logging"
)

func newFrameCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "frame <image-set-id>",
		Short: "Resolve an image set to displayable frame bytes",
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

			frame, err := buildResolver(cfg, cl, logging.NewNop()).Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, frame.Data, 0o644); err != nil {
					return fmt.Errorf("write frame: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes (%s, source %s) to %s\n",
					len(frame.Data), frame.Format.Tag(), frame.Source, outputPath)
				return nil
			}
			return writeJSON(cmd, api.FromResolvedFrame(frame))
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write raw frame bytes to a file instead of printing JSON")
	return cmd
}
