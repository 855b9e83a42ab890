package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected %q to be available: %+v", present, results[0])
	}
	if results[1].Available {
		t.Fatalf("missing binary reported available: %+v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unconfigured command mishandled: %+v", results[2])
	}
}

func TestDefaultUsesConfiguredBinary(t *testing.T) {
	reqs := Default("custom_decoder")
	if len(reqs) != 1 {
		t.Fatalf("expected one requirement, got %d", len(reqs))
	}
	if reqs[0].Command != "custom_decoder" {
		t.Fatalf("command = %q", reqs[0].Command)
	}
	if !reqs[0].Optional {
		t.Fatal("decoder must be optional")
	}
	if Default("")[0].Command != "opj_decompress" {
		t.Fatal("empty binary should default to opj_decompress")
	}
}
