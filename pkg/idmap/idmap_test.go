package idmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestBuildIDMapDense(t *testing.T) {
	m, err := BuildIDMap([]string{"A", "B", "A", "C", "B", "A"})
	assert.Nil(t, err)
	assert.Equal(t, 3, m.Len())

	// first-appearance order
	a, _ := m.ToDense("A")
	b, _ := m.ToDense("B")
	c, _ := m.ToDense("C")
	assert.Equal(t, int32(0), a)
	assert.Equal(t, int32(1), b)
	assert.Equal(t, int32(2), c)

	seen := make(map[int32]struct{})
	for _, ext := range []string{"A", "B", "C"} {
		id, err := m.ToDense(ext)
		assert.Nil(t, err)
		if id < 0 || id >= int32(m.Len()) {
			t.Errorf("dense id %d out of range", id)
		}
		if _, ok := seen[id]; ok {
			t.Errorf("dense id %d assigned twice", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIDMapRoundTrip(t *testing.T) {
	ids := []string{}
	for i := 0; i < 1000; i++ {
		ids = append(ids, fmt.Sprintf("node-%d", rand.Intn(300)))
	}
	m, err := BuildIDMap(ids)
	assert.Nil(t, err)

	for dense := int32(0); dense < int32(m.Len()); dense++ {
		ext, err := m.ToExternal(dense)
		assert.Nil(t, err)
		back, err := m.ToDense(ext)
		assert.Nil(t, err)
		assert.Equal(t, dense, back)
	}
	for _, ext := range ids {
		dense, err := m.ToDense(ext)
		assert.Nil(t, err)
		back, err := m.ToExternal(dense)
		assert.Nil(t, err)
		assert.Equal(t, ext, back)
	}
}

func TestIDMapUnknown(t *testing.T) {
	m, _ := BuildIDMap([]string{"A"})

	_, err := m.ToDense("Z")
	assert.ErrorIs(t, err, ErrUnknownID)

	_, err = m.ToExternal(5)
	assert.ErrorIs(t, err, ErrUnknownID)

	_, err = m.ToExternal(-1)
	assert.ErrorIs(t, err, ErrUnknownID)
}
