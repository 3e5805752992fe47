package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidVector is returned when a vector blob is invalid
var ErrInvalidVector = errors.New("invalid vector")

const headerSize = 4

// EncodeVector encodes a float64 vector as a little-endian BLOB:
// an int32 element count followed by IEEE 754 float64 values.
func EncodeVector(vector []float64) ([]byte, error) {
	if vector == nil {
		return nil, ErrInvalidVector
	}

	if len(vector) > math.MaxInt32 {
		return nil, fmt.Errorf("vector too large: %d elements exceeds maximum", len(vector))
	}

	buf := make([]byte, headerSize+len(vector)*8)
	binary.LittleEndian.PutUint32(buf, uint32(len(vector)))
	for i, val := range vector {
		binary.LittleEndian.PutUint64(buf[headerSize+i*8:], math.Float64bits(val))
	}

	return buf, nil
}

// DecodeVector decodes a BLOB produced by EncodeVector.
func DecodeVector(data []byte) ([]float64, error) {
	if len(data) < headerSize {
		return nil, ErrInvalidVector
	}

	length := int32(binary.LittleEndian.Uint32(data))
	if length < 0 {
		return nil, ErrInvalidVector
	}

	if length == 0 {
		return []float64{}, nil
	}

	// Check if we have exactly enough bytes for the vector
	if len(data)-headerSize != int(length)*8 {
		return nil, fmt.Errorf("%w: %d bytes for %d elements", ErrInvalidVector, len(data)-headerSize, length)
	}

	vector := make([]float64, length)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[headerSize+i*8:]))
	}

	return vector, nil
}
