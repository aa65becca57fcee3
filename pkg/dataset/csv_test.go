package dataset

import (
	"strings"
	"testing"

	"roadnet/pkg/builder"

	"github.com/stretchr/testify/assert"
)

func TestLoadEdgeTable(t *testing.T) {
	in := strings.NewReader(`src_id,dst_id,length,category
A,B,10.5,residential
B,C,5,primary
`)
	edges, err := LoadEdgeTable(in)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(edges))
	assert.Equal(t, "A", edges[0].SrcID)
	assert.Equal(t, "B", edges[0].DstID)
	assert.Equal(t, 10.5, edges[0].Length)
	assert.Equal(t, "residential", edges[0].RoadClass)
}

func TestLoadEdgeTableReorderedColumns(t *testing.T) {
	in := strings.NewReader(`category,length,dst_id,src_id
residential,10,B,A
`)
	edges, err := LoadEdgeTable(in)
	assert.Nil(t, err)
	assert.Equal(t, "A", edges[0].SrcID)
	assert.Equal(t, "B", edges[0].DstID)
}

func TestLoadEdgeTableMissingColumn(t *testing.T) {
	in := strings.NewReader(`src_id,dst_id,length
A,B,10
`)
	_, err := LoadEdgeTable(in)
	assert.ErrorIs(t, err, builder.ErrSchema)
	assert.Contains(t, err.Error(), "category")
}

func TestLoadEdgeTableBadLength(t *testing.T) {
	in := strings.NewReader(`src_id,dst_id,length,category
A,B,ten,residential
`)
	_, err := LoadEdgeTable(in)
	assert.ErrorIs(t, err, builder.ErrSchema)
}

func TestLoadNodeTablePassthrough(t *testing.T) {
	in := strings.NewReader(`node_id,easting,northing,lat,lon
A,434123.1,9163000.5,-7.57,110.82
B,434500.0,9163100.0,-7.58,110.83
`)
	nodes, err := LoadNodeTable(in)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(nodes))
	assert.Equal(t, "A", nodes[0].ID)
	assert.Equal(t, "434123.1", nodes[0].Attrs["easting"])
	assert.Equal(t, "-7.57", nodes[0].Attrs["lat"])
	assert.Equal(t, 4, len(nodes[0].Attrs))
}

func TestLoadNodeTableNoExtraColumns(t *testing.T) {
	in := strings.NewReader(`node_id
A
`)
	nodes, err := LoadNodeTable(in)
	assert.Nil(t, err)
	assert.Nil(t, nodes[0].Attrs)
}

func TestLoadSpeedTable(t *testing.T) {
	in := strings.NewReader(`category,speed
residential,8.3
motorway,26.4
`)
	speeds, err := LoadSpeedTable(in)
	assert.Nil(t, err)
	assert.Equal(t, 8.3, speeds["residential"])
	assert.Equal(t, 26.4, speeds["motorway"])
}

func TestLoadSpeedTableNonPositive(t *testing.T) {
	in := strings.NewReader(`category,speed
residential,0
`)
	_, err := LoadSpeedTable(in)
	assert.ErrorIs(t, err, builder.ErrSchema)
}
