package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"framegate/internal/services"
	"framegate/internal/sniff"
)

var commandContext = exec.CommandContext

// Codec converts encoded frame bytes into PNG. Implementations advertise the
// formats they can handle so callers can treat decoding as a capability that
// may be absent at runtime rather than an exception to catch.
type Codec interface {
	Supports(format sniff.Format) bool
	DecodeToPNG(ctx context.Context, data []byte, format sniff.Format) ([]byte, error)
}

// OpenJPEG decodes JPEG 2000 frames by shelling out to opj_decompress. The
// binary is resolved once at construction; a missing binary yields a codec
// that supports nothing, which the Transcoder degrades around.
type OpenJPEG struct {
	binary  string
	timeout time.Duration
}

// Option configures the OpenJPEG codec.
type Option func(*OpenJPEG)

// WithBinary overrides the default decoder binary name.
func WithBinary(binary string) Option {
	return func(c *OpenJPEG) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds a single decode invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *OpenJPEG) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewOpenJPEG constructs the codec using defaults.
func NewOpenJPEG(opts ...Option) *OpenJPEG {
	codec := &OpenJPEG{binary: "opj_decompress", timeout: 60 * time.Second}
	for _, opt := range opts {
		opt(codec)
	}
	return codec
}

// Supports reports whether the decoder binary is present and the format is a
// JPEG 2000 variant.
func (c *OpenJPEG) Supports(format sniff.Format) bool {
	if format != sniff.JP2Codestream && format != sniff.JP2Box {
		return false
	}
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// DecodeToPNG writes the frame to a temp file, runs the decoder, and reads
// back the PNG it produced. opj_decompress selects its input parser by file
// extension, so codestreams get .j2k and boxed files get .jp2.
func (c *OpenJPEG) DecodeToPNG(ctx context.Context, data []byte, format sniff.Format) ([]byte, error) {
	ext := ".jp2"
	if format == sniff.JP2Codestream {
		ext = ".j2k"
	}

	workDir, err := os.MkdirTemp("", "framegate-transcode-")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcode", "decode", "create work directory", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "frame"+ext)
	outputPath := filepath.Join(workDir, "frame.png")
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcode", "decode", "write frame", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := commandContext(runCtx, c.binary, "-i", inputPath, "-o", outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcode", "decode",
			fmt.Sprintf("%s failed: %s", c.binary, firstLine(output)), err)
	}

	png, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcode", "decode", "read decoder output", err)
	}
	return png, nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}
