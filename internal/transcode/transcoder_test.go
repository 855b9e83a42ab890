package transcode

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"framegate/internal/logging"
	"framegate/internal/services"
	"framegate/internal/sniff"
)

var (
	jp2BoxBytes  = []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A, 0x42}
	jpegBytes    = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01}
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47}
)

// writeStubDecoder creates a shell script that mimics opj_decompress by
// writing a PNG signature to the -o path.
func writeStubDecoder(t *testing.T, dir string, exitCode int) string {
	t.Helper()
	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
if [ -n "$out" ]; then printf '\211PNG decoded' > "$out"; fi
exit ` + strconv.Itoa(exitCode) + `
`
	path := filepath.Join(dir, "opj_stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub decoder: %v", err)
	}
	return path
}

func TestTranscodePassthroughFormats(t *testing.T) {
	tr := New(NewOpenJPEG(), logging.NewNop())

	for _, tc := range []struct {
		name   string
		data   []byte
		format sniff.Format
	}{
		{"jpeg", jpegBytes, sniff.JPEG},
		{"png", append(pngSignature, 0x0D), sniff.PNG},
		{"unknown", []byte("raw"), sniff.Unknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, format := tr.Transcode(context.Background(), tc.data, tc.format)
			if format != tc.format {
				t.Fatalf("format changed: %v -> %v", tc.format, format)
			}
			if !bytes.Equal(out, tc.data) {
				t.Fatal("passthrough mutated bytes")
			}
		})
	}
}

func TestTranscodeJP2WithStubDecoder(t *testing.T) {
	binary := writeStubDecoder(t, t.TempDir(), 0)
	codec := NewOpenJPEG(WithBinary(binary))
	tr := New(codec, logging.NewNop())

	out, format := tr.Transcode(context.Background(), jp2BoxBytes, sniff.JP2Box)
	if format != sniff.PNG {
		t.Fatalf("format = %v, want PNG", format)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		t.Fatalf("output is not PNG: %v", out[:4])
	}
}

func TestTranscodeDegradesWhenDecoderMissing(t *testing.T) {
	codec := NewOpenJPEG(WithBinary("definitely-not-installed-decoder"))
	tr := New(codec, logging.NewNop())

	out, format := tr.Transcode(context.Background(), jp2BoxBytes, sniff.JP2Box)
	if format != sniff.JP2Box {
		t.Fatalf("format = %v, want original JP2Box", format)
	}
	if !bytes.Equal(out, jp2BoxBytes) {
		t.Fatal("degraded output must be the original untouched bytes")
	}
}

func TestTranscodeDegradesWhenDecoderFails(t *testing.T) {
	binary := writeStubDecoder(t, t.TempDir(), 1)
	codec := NewOpenJPEG(WithBinary(binary))
	tr := New(codec, logging.NewNop())

	out, format := tr.Transcode(context.Background(), jp2BoxBytes, sniff.JP2Box)
	if format != sniff.JP2Box {
		t.Fatalf("format = %v, want original JP2Box", format)
	}
	if !bytes.Equal(out, jp2BoxBytes) {
		t.Fatal("failed decode must return original bytes")
	}
}

func TestTranscodeNilCodec(t *testing.T) {
	tr := New(nil, logging.NewNop())
	out, format := tr.Transcode(context.Background(), jp2BoxBytes, sniff.JP2Box)
	if format != sniff.JP2Box || !bytes.Equal(out, jp2BoxBytes) {
		t.Fatal("nil codec must pass through unchanged")
	}
}

func TestOpenJPEGSupports(t *testing.T) {
	missing := NewOpenJPEG(WithBinary("definitely-not-installed-decoder"))
	if missing.Supports(sniff.JP2Box) {
		t.Fatal("missing binary should not claim support")
	}

	binary := writeStubDecoder(t, t.TempDir(), 0)
	present := NewOpenJPEG(WithBinary(binary))
	if !present.Supports(sniff.JP2Box) || !present.Supports(sniff.JP2Codestream) {
		t.Fatal("present binary should support both JP2 variants")
	}
	if present.Supports(sniff.JPEG) {
		t.Fatal("codec must not claim JPEG support")
	}
}

func TestOpenJPEGDecodeError(t *testing.T) {
	binary := writeStubDecoder(t, t.TempDir(), 1)
	codec := NewOpenJPEG(WithBinary(binary))
	_, err := codec.DecodeToPNG(context.Background(), jp2BoxBytes, sniff.JP2Box)
	if err == nil {
		t.Fatal("expected error from failing decoder")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}
