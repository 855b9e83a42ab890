package objectstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"framegate/internal/logging"
	"framegate/internal/services"
)

type fakeStore struct {
	existing map[string]bool
	failing  map[string]error
	checked  []string
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	f.checked = append(f.checked, key)
	if err, ok := f.failing[key]; ok {
		return false, err
	}
	return f.existing[key], nil
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.existing[key] {
		return []byte("object:" + key), nil
	}
	return nil, services.Wrap(services.ErrNotFound, "object-store", "get", key, nil)
}

func TestCandidatesOrder(t *testing.T) {
	want := []string{"input/abc.dcm", "input/abc.DCM", "upload/abc.dcm", "upload/abc.DCM"}
	if got := Candidates("abc"); !reflect.DeepEqual(got, want) {
		t.Fatalf("Candidates(abc) = %v, want %v", got, want)
	}
}

func TestLocateStopsAtFirstHit(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{
		"input/abc.DCM":  true,
		"upload/abc.dcm": true,
	}}
	probe := NewProbe(store, logging.NewNop())

	key, err := probe.Locate(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if key != "input/abc.DCM" {
		t.Fatalf("key = %q, want input/abc.DCM", key)
	}
	wantChecked := []string{"input/abc.dcm", "input/abc.DCM"}
	if !reflect.DeepEqual(store.checked, wantChecked) {
		t.Fatalf("checked %v, want %v", store.checked, wantChecked)
	}
}

func TestLocateExhaustionIsNotFound(t *testing.T) {
	store := &fakeStore{}
	probe := NewProbe(store, logging.NewNop())

	_, err := probe.Locate(context.Background(), "xyz")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found after exhaustion, got %v", err)
	}
	if len(store.checked) != 4 {
		t.Fatalf("expected all 4 candidates checked, got %v", store.checked)
	}
}

func TestLocateTransientErrorIsAMiss(t *testing.T) {
	store := &fakeStore{
		failing:  map[string]error{"input/abc.dcm": errors.New("timeout")},
		existing: map[string]bool{"input/abc.DCM": true},
	}
	probe := NewProbe(store, logging.NewNop())

	key, err := probe.Locate(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if key != "input/abc.DCM" {
		t.Fatalf("key = %q, want probing to continue past the failing candidate", key)
	}
}
