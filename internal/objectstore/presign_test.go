package objectstore

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"scan.dcm", "scan.dcm"},
		{"chest xray (1).dcm", "chestxray1.dcm"},
		{"../../etc/passwd", "....etcpasswd"},
		{"CT_head-2024.DCM", "CT_head-2024.DCM"},
		{"日本語.dcm", ".dcm"},
		{"###", ""},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHexID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := hexID()
		if len(id) != 8 {
			t.Fatalf("hexID length = %d, want 8", len(id))
		}
		if strings.Contains(id, "-") {
			t.Fatalf("hexID contains dash: %q", id)
		}
		if seen[id] {
			t.Fatalf("hexID collision: %q", id)
		}
		seen[id] = true
	}
}
