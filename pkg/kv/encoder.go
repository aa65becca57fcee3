package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeNodes(nodes []KVNode) ([]byte, error) {
	bb, err := binary.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func decodeNodes(bbCompressed []byte) ([]KVNode, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var nodes []KVNode
	err = binary.Unmarshal(bb, &nodes)
	return nodes, err
}

func encodeDistances(dist []float64) ([]byte, error) {
	bb, err := binary.Marshal(dist)
	if err != nil {
		return nil, err
	}
	return compress(bb)
}

func decodeDistances(bbCompressed []byte) ([]float64, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var dist []float64
	err = binary.Unmarshal(bb, &dist)
	return dist, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
