package idmap

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrIDOverflow = errors.New("distinct identifier count exceeds the dense id domain")
	ErrUnknownID  = errors.New("unknown identifier")
)

// IDMap is a bijection between external string node identifiers and dense
// int32 ids covering [0, Len). Dense ids are assigned in first-appearance
// order. Immutable once built, safe for concurrent readers.
type IDMap struct {
	toDense    map[string]int32
	toExternal []string
}

// BuildIDMap compacts every identifier in ids (duplicates expected) into the
// dense id space. Returns ErrIDOverflow if the distinct count would not fit
// an int32.
func BuildIDMap(ids []string) (*IDMap, error) {
	m := &IDMap{
		toDense:    make(map[string]int32),
		toExternal: make([]string, 0),
	}
	for _, ext := range ids {
		if _, ok := m.toDense[ext]; ok {
			continue
		}
		if len(m.toExternal) >= math.MaxInt32 {
			return nil, ErrIDOverflow
		}
		m.toDense[ext] = int32(len(m.toExternal))
		m.toExternal = append(m.toExternal, ext)
	}
	return m, nil
}

// ToDense looks up the dense id of an external identifier.
func (m *IDMap) ToDense(ext string) (int32, error) {
	id, ok := m.toDense[ext]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownID, ext)
	}
	return id, nil
}

// ToExternal looks up the external identifier of a dense id.
func (m *IDMap) ToExternal(id int32) (string, error) {
	if id < 0 || int(id) >= len(m.toExternal) {
		return "", fmt.Errorf("%w: dense id %d out of [0,%d)", ErrUnknownID, id, len(m.toExternal))
	}
	return m.toExternal[id], nil
}

func (m *IDMap) Len() int {
	return len(m.toExternal)
}

// Externals returns the external identifiers indexed by dense id. Callers
// must not mutate the returned slice.
func (m *IDMap) Externals() []string {
	return m.toExternal
}
