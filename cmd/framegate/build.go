package main

import (
	"log/slog"
	"time"

	"framegate/internal/config"
	"framegate/internal/objectstore"
	"framegate/internal/resolver"
	"framegate/internal/transcode"
)

func buildTranscoder(cfg *config.Config, logger *slog.Logger) *transcode.Transcoder {
	var codec transcode.Codec
	if cfg.Transcode.Enabled {
		codec = transcode.NewOpenJPEG(
			transcode.WithBinary(cfg.TranscodeBinary()),
			transcode.WithTimeout(time.Duration(cfg.Transcode.TimeoutSeconds)*time.Second),
		)
	}
	return transcode.New(codec, logger)
}

func buildResolver(cfg *config.Config, cl *clients, logger *slog.Logger) *resolver.Resolver {
	probe := objectstore.NewProbe(cl.objects, logger)
	return resolver.New(cl.sets, probe, cl.objects, buildTranscoder(cfg, logger), resolver.Options{
		MetadataTimeout: time.Duration(cfg.Timeouts.MetadataRead) * time.Second,
		FrameTimeout:    time.Duration(cfg.Timeouts.FrameRead) * time.Second,
	}, logger)
}
