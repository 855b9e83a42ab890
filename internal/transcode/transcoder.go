// Package transcode converts resolved frame bytes into a browser-displayable
// encoding when a codec capability is available, passing them through
// untouched otherwise. Degradation is never an error: the caller learns which
// representation it actually received from the returned format.
package transcode

import (
	"context"
	"log/slog"

	"framegate/internal/logging"
	"framegate/internal/sniff"
)

// Transcoder applies the configured codec to formats browsers cannot render.
type Transcoder struct {
	codec  Codec
	logger *slog.Logger
}

// New constructs a Transcoder. A nil codec disables transcoding entirely;
// every frame then passes through with its original format.
func New(codec Codec, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		codec:  codec,
		logger: logging.NewComponentLogger(logger, "transcode"),
	}
}

// Transcode returns browser-displayable bytes for the frame when possible.
// JPEG and PNG pass through unchanged, as do buffers of unknown format.
// JPEG 2000 variants are decoded to PNG when the codec supports them; any
// decode failure returns the original bytes and format unchanged.
func (t *Transcoder) Transcode(ctx context.Context, data []byte, format sniff.Format) ([]byte, sniff.Format) {
	if format.Displayable() || format == sniff.Unknown {
		return data, format
	}

	if t == nil || t.codec == nil || !t.codec.Supports(format) {
		t.log().Debug("codec unavailable, serving original encoding",
			logging.String(logging.FieldFormat, format.String()))
		return data, format
	}

	png, err := t.codec.DecodeToPNG(ctx, data, format)
	if err != nil {
		t.log().Warn("transcode failed, serving original encoding",
			logging.String(logging.FieldFormat, format.String()),
			logging.Error(err))
		return data, format
	}
	t.log().Debug("transcoded frame",
		logging.String(logging.FieldFormat, format.String()),
		logging.Int("png_bytes", len(png)))
	return png, sniff.PNG
}

func (t *Transcoder) log() *slog.Logger {
	if t == nil || t.logger == nil {
		return logging.NewNop()
	}
	return t.logger
}
