package core

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when a movie id is not in the store
	ErrNotFound = errors.New("movie not found")

	// ErrEmptySource is returned when a source holds no vectors
	ErrEmptySource = errors.New("empty source")

	// ErrMalformed is returned when a source cannot be parsed
	ErrMalformed = errors.New("malformed source")

	// ErrDimensionMismatch is returned when vectors of a source differ in length
	ErrDimensionMismatch = errors.New("inconsistent vector dimension")

	// ErrDuplicateID is returned when the same id appears twice in a source
	ErrDuplicateID = errors.New("duplicate movie id")

	// ErrInvalidVector is returned when vector data is empty or not finite
	ErrInvalidVector = errors.New("invalid vector data")

	// ErrEmptyID is returned when a record has no id
	ErrEmptyID = errors.New("empty movie id")

	// ErrInvalidCount is returned when a negative result count is requested
	ErrInvalidCount = errors.New("invalid recommendation count")
)

// LoadError reports a malformed or inconsistent input table.
// It is fatal to startup.
type LoadError struct {
	Source string // Path or name of the source, may be empty
	Record int    // 1-based record number, 0 when unknown
	ID     string // Offending id, may be empty
	Err    error  // Underlying error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	msg := "flixvec: load"
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Record > 0 {
		msg += fmt.Sprintf(": record %d", e.Record)
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (%q)", e.ID)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError builds a LoadError for source.
func NewLoadError(source string, record int, id string, err error) error {
	return &LoadError{Source: source, Record: record, ID: id, Err: err}
}

// NotFoundError reports a query id that is absent from the store.
// Callers should treat it as "no recommendations".
type NotFoundError struct {
	ID string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("flixvec: movie %q not found", e.ID)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps errors with operation context
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("flixvec: %v", e.Err)
	}
	return fmt.Sprintf("flixvec: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsNotFound reports whether err means a missing movie.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsLoadError reports whether err originates from loading a source.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
