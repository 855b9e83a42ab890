package textutil_test

import (
	"testing"

	"framegate/internal/textutil"
)

func TestFormatPersonName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"DOE^JANE", "Jane Doe"},
		{"doe^jane", "Jane Doe"},
		{"DOE^JANE^MARIE", "Jane Marie Doe"},
		{"DOE", "Doe"},
		{"DOE^", "Doe"},
		{"^JANE", "Jane"},
		{"  DOE^JANE  ", "Jane Doe"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.FormatPersonName(tc.in); got != tc.want {
			t.Errorf("FormatPersonName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatStudyDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"20240115", "2024-01-15"},
		{"20231231", "2023-12-31"},
		{"2024011", "2024011"},
		{"2024-01-15", "2024-01-15"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.FormatStudyDate(tc.in); got != tc.want {
			t.Errorf("FormatStudyDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
