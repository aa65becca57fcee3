package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"roadnet/pkg/builder"
	"roadnet/pkg/dataset"
	"roadnet/pkg/datastructure"
	"roadnet/pkg/engine/routingalgorithm"
	"roadnet/pkg/kv"
	"roadnet/pkg/server/rest"
	"roadnet/pkg/server/rest/service"
	"roadnet/pkg/snap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mymiddleware "roadnet/pkg/server/middleware"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	graphFile  = flag.String("graph", "", "graph artifact written by the preprocessing binary")
	edgeFile   = flag.String("edges", "edges.csv", "edge table csv, used when no -graph artifact is given")
	nodeFile   = flag.String("nodes", "", "node table csv")
	speedFile  = flag.String("speeds", "", "category->speed table csv")
	graphName  = flag.String("name", "roadnet", "name of the loaded graph, keys the query cache")
	kvDir      = flag.String("kvdir", "", "badger directory for the query cache (disabled when empty)")
)

func main() {
	flag.Parse()

	rn, err := loadRoadNetwork()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("road network graph loaded: %d nodes, %d directed edges",
		rn.Store.GetNumNodes(), rn.Store.GetNumEdges())

	var (
		cache service.DistanceCache
		kvdb  *kv.KVDB
	)
	if *kvDir != "" {
		db, err := badger.Open(badger.DefaultOptions(*kvDir))
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		kvdb = kv.NewKVDB(db)
		cache = kvdb
	}

	var snapper service.RoadSnapper
	if rs, err := snap.NewRoadSnapper(rn.Nodes); err == nil {
		snapper = rs
	} else if kvdb != nil {
		// no spatial attrs in the node table, snap through the cell index
		// written by the preprocessing binary
		log.Printf("snapping through the kv cell index: %v", err)
		snapper = kvdb
	} else {
		log.Printf("nearest-node snapping disabled: %v", err)
	}

	routing := routingalgorithm.NewRouteAlgorithm(rn.Store)
	svc := service.NewRoutingService(*graphName, rn.IDs, rn.Store, routing, cache, snapper, rn.Nodes)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mymiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	rest.RoutingRouter(r, svc)
	r.Handle("/metrics", promhttp.Handler())

	log.Printf("server listening at %s", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, r); err != nil {
		log.Fatal(err)
	}
}

func loadRoadNetwork() (*builder.RoadNetwork, error) {
	if *graphFile != "" {
		log.Printf("loading graph artifact %s", *graphFile)
		f, err := os.Open(*graphFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		snapshot, err := datastructure.LoadGraphSnapshot(f)
		if err != nil {
			return nil, err
		}
		return builder.FromSnapshot(snapshot)
	}

	rawEdges, rawNodes, speeds, err := dataset.LoadTables(*edgeFile, *nodeFile, *speedFile)
	if err != nil {
		return nil, err
	}
	return builder.BuildRoadNetwork(rawEdges, rawNodes, speeds)
}
