package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// FormatPersonName renders a DICOM person name (PN) value for display.
// The caret-delimited components are reordered given-name first and
// title-cased, so "DOE^JANE" becomes "Jane Doe". Values without carets
// are returned title-cased.
func FormatPersonName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	parts := strings.Split(value, "^")
	ordered := make([]string, 0, len(parts))
	// PN component order is family^given^middle^prefix^suffix; display
	// order puts given names before the family name.
	if len(parts) > 1 {
		ordered = append(ordered, parts[1:]...)
	}
	ordered = append(ordered, parts[0])

	words := make([]string, 0, len(ordered))
	for _, part := range ordered {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words = append(words, titleCaser.String(strings.ToLower(part)))
	}
	return strings.Join(words, " ")
}

// FormatStudyDate renders a DICOM DA value (YYYYMMDD) as YYYY-MM-DD.
// Values that do not look like a DA are returned unchanged.
func FormatStudyDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return value[:4] + "-" + value[4:6] + "-" + value[6:]
}
