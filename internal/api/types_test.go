package api_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"framegate/internal/api"
	"framegate/internal/resolver"
	"framegate/internal/sniff"
)

func TestFromResolvedFrameMetadataPath(t *testing.T) {
	frame := &resolver.ResolvedFrame{
		Source:        resolver.SourceMetadataStore,
		ImageSetID:    "set-1",
		FrameID:       "frame-1",
		Width:         320,
		Height:        256,
		BitsAllocated: 16,
		Photometric:   "MONOCHROME1",
		Format:        sniff.PNG,
		Data:          []byte{0x89, 0x50, 0x4E, 0x47},
	}

	resp := api.FromResolvedFrame(frame)
	if resp.FrameID == nil || *resp.FrameID != "frame-1" {
		t.Fatalf("unexpected frame ID: %v", resp.FrameID)
	}
	if resp.Format != "png" {
		t.Fatalf("unexpected format tag: %q", resp.Format)
	}
	decoded, err := base64.StdEncoding.DecodeString(resp.Data)
	if err != nil {
		t.Fatalf("data is not valid base64: %v", err)
	}
	if string(decoded) != string(frame.Data) {
		t.Fatal("base64 round trip mismatch")
	}
}

func TestFromResolvedFrameFallbackSerializesNullFrameID(t *testing.T) {
	frame := &resolver.ResolvedFrame{
		Source:     resolver.SourceObjectStore,
		ImageSetID: "set-2",
		Key:        "input/set-2.dcm",
		Format:     sniff.Unknown,
		Data:       []byte("raw"),
	}

	payload, err := json.Marshal(api.FromResolvedFrame(frame))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"frameId":null`) {
		t.Fatalf("expected null frameId in payload: %s", payload)
	}
	if !strings.Contains(string(payload), `"source":"object-store"`) {
		t.Fatalf("expected object-store source in payload: %s", payload)
	}
}
