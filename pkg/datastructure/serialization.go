package datastructure

import (
	"io"

	"github.com/kelindar/binary"
	"github.com/klauspost/compress/zstd"
)

// GraphSnapshot is the on-disk build artifact handed from the preprocessing
// binary to the query engine: the compacted id space, the node table
// passthrough attrs and the materialized edge arena.
type GraphSnapshot struct {
	Externals []string
	Nodes     []RawNode
	Edges     []Edge
	NumNodes  int32
}

func SaveGraphSnapshot(w io.Writer, snap GraphSnapshot) error {
	bb, err := binary.Marshal(snap)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := enc.Write(bb); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func LoadGraphSnapshot(r io.Reader) (GraphSnapshot, error) {
	var snap GraphSnapshot

	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	bb, err := io.ReadAll(dec)
	if err != nil {
		return snap, err
	}

	err = binary.Unmarshal(bb, &snap)
	return snap, err
}
