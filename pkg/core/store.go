package core

import (
	"fmt"
	"math"
)

// VectorStore is the immutable id → vector table.
//
// It is built once by NewVectorStore and never mutated afterwards, so a
// single instance can be shared by any number of concurrent readers without
// locking. Records keep the order they were loaded in; that order is the
// iteration order used by the ranker to break ties.
type VectorStore struct {
	ids       []string
	vectors   map[string][]float64
	dimension int
}

// NewVectorStore validates records and builds a store from them.
//
// It fails with a *LoadError when records is empty, when an id is empty or
// repeated, when a vector is empty or holds NaN/Inf components, or when
// vector lengths disagree. The input slices are copied.
func NewVectorStore(records []MovieVector) (*VectorStore, error) {
	return newVectorStore("", records)
}

// NewVectorStoreFrom is NewVectorStore with the source name recorded in errors.
func NewVectorStoreFrom(source string, records []MovieVector) (*VectorStore, error) {
	return newVectorStore(source, records)
}

func newVectorStore(source string, records []MovieVector) (*VectorStore, error) {
	if len(records) == 0 {
		return nil, NewLoadError(source, 0, "", ErrEmptySource)
	}

	s := &VectorStore{
		ids:       make([]string, 0, len(records)),
		vectors:   make(map[string][]float64, len(records)),
		dimension: len(records[0].Vector),
	}

	for i, rec := range records {
		if err := s.validate(rec); err != nil {
			return nil, NewLoadError(source, i+1, rec.ID, err)
		}

		v := make([]float64, len(rec.Vector))
		copy(v, rec.Vector)
		s.ids = append(s.ids, rec.ID)
		s.vectors[rec.ID] = v
	}

	return s, nil
}

func (s *VectorStore) validate(rec MovieVector) error {
	if rec.ID == "" {
		return ErrEmptyID
	}
	if _, exists := s.vectors[rec.ID]; exists {
		return ErrDuplicateID
	}
	if err := ValidateVector(rec.Vector); err != nil {
		return err
	}
	if len(rec.Vector) != s.dimension {
		return &dimensionError{expected: s.dimension, got: len(rec.Vector)}
	}
	return nil
}

// ValidateVector rejects empty vectors and vectors with NaN or infinite components.
func ValidateVector(vector []float64) error {
	if len(vector) == 0 {
		return ErrInvalidVector
	}
	for _, val := range vector {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return ErrInvalidVector
		}
	}
	return nil
}

// Contains reports whether id is in the store.
func (s *VectorStore) Contains(id string) bool {
	_, ok := s.vectors[id]
	return ok
}

// Get returns a copy of the vector for id, or a *NotFoundError.
func (s *VectorStore) Get(id string) ([]float64, error) {
	vector, ok := s.vectors[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	v := make([]float64, len(vector))
	copy(v, vector)
	return v, nil
}

// Len returns the number of movies in the store.
func (s *VectorStore) Len() int {
	return len(s.ids)
}

// Dimensions returns the shared vector length.
func (s *VectorStore) Dimensions() int {
	return s.dimension
}

// IDs returns the ids in load order.
func (s *VectorStore) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Each calls fn for every entry in load order until fn returns false.
// The vector passed to fn must not be modified.
func (s *VectorStore) Each(fn func(id string, vector []float64) bool) {
	for _, id := range s.ids {
		if !fn(id, s.vectors[id]) {
			return
		}
	}
}

// Records returns a copy of the store contents in load order.
func (s *VectorStore) Records() []MovieVector {
	out := make([]MovieVector, 0, len(s.ids))
	for _, id := range s.ids {
		v := make([]float64, len(s.vectors[id]))
		copy(v, s.vectors[id])
		out = append(out, MovieVector{ID: id, Vector: v})
	}
	return out
}

// Stats returns statistics about the store.
func (s *VectorStore) Stats() StoreStats {
	return StoreStats{Count: len(s.ids), Dimensions: s.dimension}
}

// dimensionError keeps the expected/got lengths while matching ErrDimensionMismatch.
type dimensionError struct {
	expected int
	got      int
}

func (e *dimensionError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", ErrDimensionMismatch, e.expected, e.got)
}

func (e *dimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
