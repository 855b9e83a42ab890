package sniff

import "testing"

func TestSniffKnownSignatures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, JPEG},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, PNG},
		{"jp2 codestream", []byte{0xFF, 0x4F, 0xFF, 0x51, 0x00}, JP2Codestream},
		{"jp2 box", []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A, 0x01}, JP2Box},
		{"empty", nil, Unknown},
		{"short jpeg prefix", []byte{0xFF}, Unknown},
		{"truncated jp2 box", []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50}, Unknown},
		{"text", []byte("not an image"), Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sniff(tc.data); got != tc.want {
				t.Fatalf("Sniff(%v) = %v, want %v", tc.data, got, tc.want)
			}
		})
	}
}

func TestSniffPrefixPriority(t *testing.T) {
	// 0xFF 0xD8 must classify as JPEG even though JP2 codestreams also start
	// with 0xFF; exact-prefix matching keeps shared leading bytes unambiguous.
	data := []byte{0xFF, 0xD8, 0xFF, 0x51}
	if got := Sniff(data); got != JPEG {
		t.Fatalf("expected JPEG for FFD8 prefix, got %v", got)
	}
}

func TestFormatTags(t *testing.T) {
	cases := map[Format]string{
		JPEG:          "jpeg",
		PNG:           "png",
		JP2Codestream: "jp2",
		JP2Box:        "jp2",
		Unknown:       "unknown",
	}
	for format, want := range cases {
		if got := format.Tag(); got != want {
			t.Fatalf("%v.Tag() = %q, want %q", format, got, want)
		}
	}
	if !JPEG.Displayable() || !PNG.Displayable() {
		t.Fatal("jpeg and png should be displayable")
	}
	if JP2Box.Displayable() || Unknown.Displayable() {
		t.Fatal("jp2 and unknown should not be displayable")
	}
}
