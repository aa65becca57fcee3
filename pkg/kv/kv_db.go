package kv

import (
	"context"
	"errors"
	"fmt"
	"log"

	"roadnet/pkg/geo"

	"github.com/dgraph-io/badger/v4"
	"github.com/uber/h3-go/v4"
)

const (
	cellResolution = 9

	cellKeyPrefix = "cell/"
	ssspKeyPrefix = "sssp/"
)

var (
	ErrNodesNotFound     = errors.New("nodes not found")
	ErrDistancesNotFound = errors.New("distance vector not found")
)

// KVNode is the spatially indexed projection of a road network node: its
// dense id plus the coordinate the H3 cell key was derived from.
type KVNode struct {
	ID  int32
	Lat float64
	Lon float64
}

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

// BuildCellIndexedNodes groups every coordinate-carrying node by its H3 cell
// and persists cell -> nodes entries, the backing index of the kv-based
// nearest-node lookup.
func (k *KVDB) BuildCellIndexedNodes(ctx context.Context, nodes []KVNode) error {
	log.Printf("creating & saving h3 indexed nodes to key-value db...")

	kv := make(map[string][]KVNode)
	for i := range nodes {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		node := nodes[i]
		cell := h3.LatLngToCell(h3.NewLatLng(node.Lat, node.Lon), cellResolution)
		kv[cell.String()] = append(kv[cell.String()], node)
	}

	batchSize := 1000
	batches := make([]batchData, 0, batchSize)
	for key, value := range kv {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		batches = append(batches, batchData{
			key:   cellKeyPrefix + key,
			value: value,
		})
		if len(batches) == batchSize {
			if err := k.saveBatchNodes(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveBatchNodes(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed nodes to key-value db done...")
	return nil
}

type batchData struct {
	key   string
	value []KVNode
}

func (k *KVDB) saveBatchNodes(ctx context.Context, batchData []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batchData {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		val, err := encodeNodes(data.value)
		if err != nil {
			return err
		}
		if err := batch.Set([]byte(data.key), val); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving nodes: %v", err)
		return err
	}
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// GetNearbyNodesFromPointCoord returns the indexed nodes in the H3 cell of
// the query point, widening the search ring by ring while the result is
// empty.
func (k *KVDB) GetNearbyNodesFromPointCoord(lat, lon float64) ([]KVNode, error) {
	home := h3.LatLngToCell(h3.NewLatLng(lat, lon), cellResolution)

	nodes := []KVNode{}
	val, err := k.get([]byte(cellKeyPrefix + home.String()))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}
	if err == nil {
		decoded, err := decodeNodes(val)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, decoded...)
	}

	for lev := 1; lev <= 10 && len(nodes) == 0; lev++ {
		for _, currCell := range h3.GridDisk(home, lev) {
			if currCell == home {
				continue
			}
			val, err := k.get([]byte(cellKeyPrefix + currCell.String()))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			decoded, err := decodeNodes(val)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, decoded...)
		}
	}

	if len(nodes) == 0 {
		return nil, ErrNodesNotFound
	}
	return nodes, nil
}

// SnapToNode returns the dense id of the nearest cell-indexed node and its
// haversine distance to the query point in meters. The kv-backed counterpart
// of the rtree snapper, usable when the node table itself carries no
// coordinates.
func (k *KVDB) SnapToNode(lat, lon float64) (int32, float64, error) {
	nearby, err := k.GetNearbyNodesFromPointCoord(lat, lon)
	if err != nil {
		return -1, 0, err
	}

	best := nearby[0]
	bestDist := geo.HaversineDistance(lat, lon, best.Lat, best.Lon)
	for _, node := range nearby[1:] {
		if dist := geo.HaversineDistance(lat, lon, node.Lat, node.Lon); dist < bestDist {
			best, bestDist = node, dist
		}
	}
	return best.ID, bestDist, nil
}

// SaveDistanceVector caches one shortest-path result under
// (graph name, metric, source dense id).
func (k *KVDB) SaveDistanceVector(graph, metric string, source int32, dist []float64) error {
	val, err := encodeDistances(dist)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%s/%s/%d", ssspKeyPrefix, graph, metric, source)
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

// GetDistanceVector returns a cached shortest-path result, or
// ErrDistancesNotFound when the query was never cached.
func (k *KVDB) GetDistanceVector(graph, metric string, source int32) ([]float64, error) {
	key := fmt.Sprintf("%s%s/%s/%d", ssspKeyPrefix, graph, metric, source)
	val, err := k.get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrDistancesNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDistances(val)
}
