package main

import (
	"github.com/spf13/cobra"

	"framegate/internal/api"
	"framegate/internal/logging"
	"framegate/internal/objectstore"
)

func newPresignCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presign",
		Short: "Mint presigned upload and download URLs",
	}

	var contentType string
	upload := &cobra.Command{
		Use:   "upload <filename>",
		Short: "Mint a presigned PUT URL for uploading a DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.dialClients(cmd.Context())
			if err != nil {
				return err
			}
			issuer := objectstore.NewIssuer(cl.objects, logging.NewNop())
			grant, err := issuer.Upload(cmd.Context(), args[0], contentType)
			if err != nil {
				return err
			}
			return writeJSON(cmd, api.FromPresignedUpload(grant))
		},
	}
	upload.Flags().StringVar(&contentType, "content-type", "", "Content type the upload must use")

	download := &cobra.Command{
		Use:   "download <key>",
		Short: "Mint a presigned GET URL for an existing object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.dialClients(cmd.Context())
			if err != nil {
				return err
			}
			issuer := objectstore.NewIssuer(cl.objects, logging.NewNop())
			grant, err := issuer.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, api.FromPresignedDownload(grant))
		},
	}

	cmd.AddCommand(upload, download)
	return cmd
}
