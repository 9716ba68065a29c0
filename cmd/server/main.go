package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/catalogs"
	"blockforge.dev/internal/gen/district"
	"blockforge.dev/internal/gen/tuning"
	"blockforge.dev/internal/persistence/indexdb"
	"blockforge.dev/internal/protocol"
	"blockforge.dev/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		schemaDir  = flag.String("schemas", "./schemas", "schema directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the run index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir, *schemaDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	logger.Printf("catalogs loaded: %d blocks (digest %.12s), %d content defs (digest %.12s)",
		len(cats.Blocks.Defs), cats.Blocks.Digest, cats.Content.Catalog.Len(), cats.Content.Digest)

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}

	asm := district.New(cats, tune)
	wsrv := ws.NewServer(asm, cats, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ws.CatalogMsg(cats))
	})
	mux.HandleFunc("/v1/generate", handleGenerate(asm, idx, logger))
	mux.HandleFunc("/v1/runs", handleRuns(idx))
	mux.HandleFunc("/v1/ws", wsrv.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func handleGenerate(asm *district.Assembler, idx *indexdb.SQLiteIndex, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, protocol.ErrBadRequest, "POST only")
			return
		}
		var req protocol.GenerateMsg
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, protocol.ErrProtoBadRequest, "malformed GENERATE")
			return
		}
		if req.DistrictID == "" {
			writeError(w, http.StatusBadRequest, protocol.ErrBadRequest, "missing district_id")
			return
		}
		d, err := asm.Assemble(district.Config{
			ID:      req.DistrictID,
			Seed:    req.Seed,
			Width:   req.Width,
			Depth:   req.Depth,
			Faction: blocks.Faction(req.Faction),
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, protocol.ErrBadRequest, err.Error())
			return
		}
		logger.Printf("generate district=%s seed=%d size=%dx%d blocks=%d spawns=%d",
			d.ID, d.Seed, d.Width, d.Depth, len(d.Blocks), len(d.Spawns))
		idx.RecordRun(indexdb.RunRow{
			DistrictID: d.ID,
			Seed:       d.Seed,
			Width:      d.Width,
			Depth:      d.Depth,
			Faction:    string(d.Faction),
			Blocks:     len(d.Blocks),
			Spawns:     len(d.Spawns),
			Digest:     d.Digest,
		})
		writeJSON(w, http.StatusOK, struct {
			District *district.District   `json:"district"`
			Batches  []protocol.SpawnsMsg `json:"batches"`
		}{District: d, Batches: ws.SpawnBatches(d)})
	}
}

func handleRuns(idx *indexdb.SQLiteIndex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if idx == nil {
			writeError(w, http.StatusNotFound, protocol.ErrNotFound, "run index disabled")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := idx.ListRuns(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, protocol.ErrInternal, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
}
