package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"roadnet/pkg/builder"
	"roadnet/pkg/dataset"
	"roadnet/pkg/datastructure"
	"roadnet/pkg/kv"

	"github.com/dgraph-io/badger/v4"
)

var (
	edgeFile   = flag.String("edges", "edges.csv", "edge table csv (src_id,dst_id,length,category)")
	nodeFile   = flag.String("nodes", "", "node table csv (node_id + passthrough columns)")
	speedFile  = flag.String("speeds", "", "category->speed table csv")
	mapFile    = flag.String("f", "", "openstreetmap pbf extract, used instead of the csv tables")
	outFile    = flag.String("out", "roadnet.graph", "output graph artifact")
	kvDir      = flag.String("kvdir", "", "badger directory for the h3 node index (skipped when empty)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	var (
		rawEdges []datastructure.RawEdge
		rawNodes []datastructure.RawNode
		speeds   builder.SpeedTable
		err      error
	)
	if *mapFile != "" {
		log.Printf("reading osm file %s", *mapFile)
		rawEdges, rawNodes, err = dataset.LoadOSM(*mapFile)
		if err != nil {
			log.Fatal(err)
		}
		speeds = builder.DefaultSpeedTable()
	} else {
		rawEdges, rawNodes, speeds, err = dataset.LoadTables(*edgeFile, *nodeFile, *speedFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("building road network graph from %d raw edges, %d raw nodes...", len(rawEdges), len(rawNodes))
	rn, err := builder.BuildRoadNetwork(rawEdges, rawNodes, speeds)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("road network graph: %d nodes, %d directed edges", rn.Store.GetNumNodes(), rn.Store.GetNumEdges())

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := datastructure.SaveGraphSnapshot(out, rn.Snapshot()); err != nil {
		log.Fatal(err)
	}
	log.Printf("graph artifact saved to %s", *outFile)

	if *kvDir != "" {
		buildNodeIndex(rn)
	}

	recordMemProfile(*memprofile)
}

func buildNodeIndex(rn *builder.RoadNetwork) {
	kvNodes := make([]kv.KVNode, 0, len(rn.Nodes))
	for dense, node := range rn.Nodes {
		lat, errLat := strconv.ParseFloat(node.Attrs["lat"], 64)
		lon, errLon := strconv.ParseFloat(node.Attrs["lon"], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		kvNodes = append(kvNodes, kv.KVNode{ID: int32(dense), Lat: lat, Lon: lon})
	}
	if len(kvNodes) == 0 {
		log.Printf("no node carries lat/lon attrs, skipping h3 index")
		return
	}

	db, err := badger.Open(badger.DefaultOptions(*kvDir))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	kvDB := kv.NewKVDB(db)
	if err := kvDB.BuildCellIndexedNodes(context.Background(), kvNodes); err != nil {
		log.Fatal(err)
	}
}

func recordMemProfile(memprofile string) {
	if memprofile == "" {
		return
	}
	f, err := os.Create(memprofile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal(err)
	}
}
