package snap

import (
	"testing"

	"roadnet/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func testNodes() []datastructure.RawNode {
	return []datastructure.RawNode{
		datastructure.NewRawNode("A", map[string]string{"lat": "-7.5755", "lon": "110.8243"}),
		datastructure.NewRawNode("B", map[string]string{"lat": "-7.5900", "lon": "110.8400"}),
		datastructure.NewRawNode("C", map[string]string{"lat": "-7.7956", "lon": "110.3695"}),
		datastructure.NewRawNode("D", nil), // no coords, not indexed
	}
}

func TestSnapToNode(t *testing.T) {
	rs, err := NewRoadSnapper(testNodes())
	assert.Nil(t, err)

	id, dist, err := rs.SnapToNode(-7.5760, 110.8250)
	assert.Nil(t, err)
	assert.Equal(t, int32(0), id)
	assert.Less(t, dist, 200.0)

	id, _, err = rs.SnapToNode(-7.80, 110.37)
	assert.Nil(t, err)
	assert.Equal(t, int32(2), id)
}

func TestSnapToNodes(t *testing.T) {
	rs, err := NewRoadSnapper(testNodes())
	assert.Nil(t, err)

	ids := rs.SnapToNodes(-7.5760, 110.8250, 2)
	assert.Equal(t, 2, len(ids))
	assert.Equal(t, int32(0), ids[0])
	assert.Equal(t, int32(1), ids[1])
}

func TestSnapperRequiresCoords(t *testing.T) {
	_, err := NewRoadSnapper([]datastructure.RawNode{
		datastructure.NewRawNode("A", nil),
		datastructure.NewRawNode("B", map[string]string{"easting": "434123"}),
	})
	assert.ErrorIs(t, err, ErrNoSpatialAttrs)
}
