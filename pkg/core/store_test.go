package core

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestNewVectorStore(t *testing.T) {
	records := []MovieVector{
		{ID: "The Godfather", Vector: []float64{0.1, 0.2, 0.3}},
		{ID: "Casablanca", Vector: []float64{0.3, 0.2, 0.1}},
		{ID: "Alien", Vector: []float64{0.0, 0.0, 1.0}},
	}

	store, err := NewVectorStore(records)
	if err != nil {
		t.Fatalf("NewVectorStore() error = %v", err)
	}

	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
	if store.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3", store.Dimensions())
	}
	if !reflect.DeepEqual(store.IDs(), []string{"The Godfather", "Casablanca", "Alien"}) {
		t.Errorf("IDs() = %v, want load order", store.IDs())
	}
	if stats := store.Stats(); stats.Count != 3 || stats.Dimensions != 3 {
		t.Errorf("Stats() = %+v", stats)
	}

	if !store.Contains("Alien") {
		t.Error("Contains(Alien) = false")
	}
	if store.Contains("alien") {
		t.Error("Contains is expected to be case sensitive")
	}

	v, err := store.Get("Casablanca")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(v, []float64{0.3, 0.2, 0.1}) {
		t.Errorf("Get() = %v", v)
	}

	if _, err := store.Get("Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(Missing) error = %v, want ErrNotFound", err)
	}
}

func TestVectorStoreImmutable(t *testing.T) {
	records := []MovieVector{
		{ID: "a", Vector: []float64{1, 2}},
		{ID: "b", Vector: []float64{3, 4}},
	}
	store, err := NewVectorStore(records)
	if err != nil {
		t.Fatalf("NewVectorStore() error = %v", err)
	}

	// Mutating the input must not reach the store.
	records[0].Vector[0] = 100

	v, _ := store.Get("a")
	if v[0] != 1 {
		t.Errorf("store shares input slice: got %v", v)
	}

	// Mutating a returned vector must not reach the store either.
	v[1] = 100
	again, _ := store.Get("a")
	if again[1] != 2 {
		t.Errorf("store shares Get() result: got %v", again)
	}

	ids := store.IDs()
	ids[0] = "changed"
	if store.IDs()[0] != "a" {
		t.Error("IDs() exposes internal slice")
	}

	recs := store.Records()
	recs[1].Vector[0] = -1
	b, _ := store.Get("b")
	if b[0] != 3 {
		t.Error("Records() exposes internal vectors")
	}
}

func TestVectorStoreEach(t *testing.T) {
	store, err := NewVectorStore([]MovieVector{
		{ID: "x", Vector: []float64{1}},
		{ID: "y", Vector: []float64{2}},
		{ID: "z", Vector: []float64{3}},
	})
	if err != nil {
		t.Fatalf("NewVectorStore() error = %v", err)
	}

	var seen []string
	store.Each(func(id string, _ []float64) bool {
		seen = append(seen, id)
		return id != "y"
	})
	if !reflect.DeepEqual(seen, []string{"x", "y"}) {
		t.Errorf("Each() visited %v, want [x y]", seen)
	}
}

func TestNewVectorStoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []MovieVector
		want    error
		record  int
	}{
		{
			name:    "empty source",
			records: nil,
			want:    ErrEmptySource,
		},
		{
			name: "dimension mismatch",
			records: []MovieVector{
				{ID: "a", Vector: []float64{1, 2}},
				{ID: "b", Vector: []float64{1, 2, 3}},
			},
			want:   ErrDimensionMismatch,
			record: 2,
		},
		{
			name: "duplicate id",
			records: []MovieVector{
				{ID: "a", Vector: []float64{1, 2}},
				{ID: "b", Vector: []float64{1, 2}},
				{ID: "a", Vector: []float64{2, 1}},
			},
			want:   ErrDuplicateID,
			record: 3,
		},
		{
			name:    "empty vector",
			records: []MovieVector{{ID: "a", Vector: []float64{}}},
			want:    ErrInvalidVector,
			record:  1,
		},
		{
			name: "nan component",
			records: []MovieVector{
				{ID: "a", Vector: []float64{1, 2}},
				{ID: "b", Vector: []float64{math.NaN(), 2}},
			},
			want:   ErrInvalidVector,
			record: 2,
		},
		{
			name:    "infinite component",
			records: []MovieVector{{ID: "a", Vector: []float64{math.Inf(1)}}},
			want:    ErrInvalidVector,
			record:  1,
		},
		{
			name:    "empty id",
			records: []MovieVector{{ID: "", Vector: []float64{1}}},
			want:    ErrEmptyID,
			record:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewVectorStoreFrom("movies.json", tt.records)
			if store != nil {
				t.Fatal("expected nil store")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T", err)
			}
			if le.Record != tt.record {
				t.Errorf("Record = %d, want %d", le.Record, tt.record)
			}
			if le.Source != "movies.json" {
				t.Errorf("Source = %q", le.Source)
			}
			if !IsLoadError(err) {
				t.Error("IsLoadError() = false")
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewLoadError("data.csv", 4, "Heat", ErrDuplicateID)
	msg := err.Error()
	for _, part := range []string{"data.csv", "record 4", `"Heat"`, ErrDuplicateID.Error()} {
		if !strings.Contains(msg, part) {
			t.Errorf("LoadError message %q missing %q", msg, part)
		}
	}

	nf := &NotFoundError{ID: "Heat"}
	if !strings.Contains(nf.Error(), `"Heat"`) {
		t.Errorf("NotFoundError message = %q", nf.Error())
	}

	wrapped := wrapError("recommend", nf)
	if !strings.Contains(wrapped.Error(), "recommend") {
		t.Errorf("StoreError message = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("StoreError does not unwrap to ErrNotFound")
	}
	if wrapError("op", nil) != nil {
		t.Error("wrapError(nil) != nil")
	}

	dim := NewLoadError("", 2, "", &dimensionError{expected: 3, got: 4})
	if !strings.Contains(dim.Error(), "expected 3, got 4") {
		t.Errorf("dimension error message = %q", dim.Error())
	}
}
