package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gonum.org/v1/gonum/spatial/r3"

	"wayfarer/server/logging"
	navlog "wayfarer/server/logging/navigation"
	"wayfarer/server/logging/sinks"
	"wayfarer/server/nav"
	"wayfarer/server/navstore"
	"wayfarer/server/world"
)

type coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (c coord) vec() r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}

func fromVec(v r3.Vec) coord {
	return coord{X: v.X, Y: v.Y, Z: v.Z}
}

type pathRequest struct {
	Start coord `json:"start"`
	End   coord `json:"end"`
}

type pathResponse struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Found  bool      `json:"found"`
	Path   []coord   `json:"path"`
	Length int       `json:"length"`
	Stats  nav.Stats `json:"stats"`
}

type traceMessage struct {
	Type           string    `json:"type"`
	ID             string    `json:"id"`
	Start          coord     `json:"start"`
	End            coord     `json:"end"`
	Status         string    `json:"status"`
	Length         int       `json:"length"`
	Stats          nav.Stats `json:"stats"`
	DurationMillis int64     `json:"durationMillis"`
}

func main() {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		nodesPath = flag.String("nodes", "", "nav-node dataset (.json, .db, .sqlite)")
		worldPath = flag.String("world", "", "world description JSON (optional)")
		logJSON   = flag.String("log-json", "", "write NDJSON event log to this file (optional)")
	)
	flag.Parse()

	if *nodesPath == "" {
		log.Fatal("-nodes is required")
	}

	router, closeLogs := buildLogRouter(*logJSON)
	defer closeLogs()

	nodes, err := navstore.Load(*nodesPath)
	if err != nil {
		log.Fatalf("failed to load nav nodes: %v", err)
	}
	navlog.DatasetLoaded(context.Background(), router, navlog.DatasetLoadedPayload{
		Path:  *nodesPath,
		Nodes: len(nodes),
	})

	worldMap := world.NewMap()
	if *worldPath != "" {
		worldMap, err = world.Load(*worldPath)
		if err != nil {
			log.Fatalf("failed to load world: %v", err)
		}
	}
	interior := world.NewInterior(worldMap)
	finder := nav.NewPathfinder(nodes, interior, worldMap, nav.DefaultConfig(), router)

	traces := newFeed()

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods("GET")

	r.HandleFunc("/diagnostics", func(w http.ResponseWriter, req *http.Request) {
		stats := router.Stats()
		payload := struct {
			Status      string `json:"status"`
			ServerTime  int64  `json:"serverTime"`
			Nodes       int    `json:"nodes"`
			Subscribers int    `json:"subscribers"`
			Events      uint64 `json:"events"`
			Dropped     uint64 `json:"droppedEvents"`
		}{
			Status:      "ok",
			ServerTime:  time.Now().UnixMilli(),
			Nodes:       len(nodes),
			Subscribers: traces.count(),
			Events:      stats.EventsTotal,
			Dropped:     stats.DroppedTotal,
		}
		writeJSON(w, payload)
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/path", func(w http.ResponseWriter, req *http.Request) {
		var body pathRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		id := uuid.NewString()
		began := time.Now()
		route := finder.FindRoute(body.Start.vec(), body.End.vec())
		elapsed := time.Since(began)

		path := make([]coord, 0, len(route.Points))
		for _, p := range route.Points {
			path = append(path, fromVec(p))
		}
		writeJSON(w, pathResponse{
			ID:     id,
			Status: route.Status.String(),
			Found:  route.Status == nav.StatusFound,
			Path:   path,
			Length: len(path),
			Stats:  route.Stats,
		})

		traces.broadcast(traceMessage{
			Type:           "query",
			ID:             id,
			Start:          body.Start,
			End:            body.End,
			Status:         route.Status.String(),
			Length:         len(path),
			Stats:          route.Stats,
			DurationMillis: elapsed.Milliseconds(),
		})
	}).Methods("POST")

	r.HandleFunc("/ws", traces.handleWS)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(r)

	log.Printf("navigation service listening on %s (%d nav nodes)", *addr, len(nodes))
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func buildLogRouter(jsonPath string) (*logging.Router, func()) {
	cfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, cfg.Console)},
	}
	var jsonFile *os.File
	if jsonPath != "" {
		f, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open event log: %v", err)
		}
		jsonFile = f
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f, cfg.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(nil, cfg, named)
	if err != nil {
		log.Fatalf("failed to build log router: %v", err)
	}
	return router, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
		if jsonFile != nil {
			jsonFile.Close()
		}
	}
}
