package services

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrTransient, "metadata-store", "get-metadata", "fetch failed", base)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "metadata-store: get-metadata: fetch failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("nil marker should default to transient, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Wrap(ErrValidation, "api", "frame", "identifier required", nil), http.StatusBadRequest},
		{Wrap(ErrAccessDenied, "metadata-store", "get-metadata", "denied", nil), http.StatusForbidden},
		{Wrap(ErrNotFound, "resolver", "resolve", "no frame", nil), http.StatusNotFound},
		{Wrap(ErrTransient, "objects", "get", "timeout", nil), http.StatusInternalServerError},
		{errors.New("untagged"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFallbackable(t *testing.T) {
	if Fallbackable(nil) {
		t.Fatal("nil error is not fallbackable")
	}
	if Fallbackable(Wrap(ErrAccessDenied, "metadata-store", "get-metadata", "denied", nil)) {
		t.Fatal("access denial must not fall back")
	}
	if Fallbackable(Wrap(ErrValidation, "api", "frame", "bad input", nil)) {
		t.Fatal("validation errors must not fall back")
	}
	if !Fallbackable(Wrap(ErrNotFound, "metadata-store", "get-metadata", "missing", nil)) {
		t.Fatal("not-found should demote to fallback")
	}
	if !Fallbackable(errors.New("network")) {
		t.Fatal("unclassified errors should demote to fallback")
	}
}
