// citygen assembles one district from the catalogs and writes it out as a
// compressed snapshot, recording the run in the index DB.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/catalogs"
	"blockforge.dev/internal/gen/district"
	"blockforge.dev/internal/gen/tuning"
	"blockforge.dev/internal/persistence/indexdb"
	"blockforge.dev/internal/persistence/snapshot"
)

func main() {
	var (
		configDir = flag.String("configs", "./configs", "config directory")
		schemaDir = flag.String("schemas", "./schemas", "schema directory")
		dataDir   = flag.String("data", "./data", "runtime data directory")
		id        = flag.String("id", "district_1", "district id")
		seed      = flag.Int64("seed", 1337, "district seed")
		width     = flag.Int("width", 8, "district width in cells")
		depth     = flag.Int("depth", 8, "district depth in cells")
		faction   = flag.String("faction", "", "faction override (kurenai, aoi, ronin)")
		noIndex   = flag.Bool("no_index", false, "skip the run index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[citygen] ", log.LstdFlags)

	cats, err := catalogs.Load(*configDir, *schemaDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(*configDir, "tuning.yaml"))
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	d, err := district.New(cats, tune).Assemble(district.Config{
		ID:      *id,
		Seed:    *seed,
		Width:   *width,
		Depth:   *depth,
		Faction: blocks.Faction(*faction),
	})
	if err != nil {
		logger.Fatalf("assemble: %v", err)
	}
	logger.Printf("assembled district=%s seed=%d size=%dx%d blocks=%d spawns=%d digest=%.12s",
		d.ID, d.Seed, d.Width, d.Depth, len(d.Blocks), len(d.Spawns), d.Digest)

	snap := snapshot.FromDistrict(d, cats.Blocks.Digest, cats.Content.Digest)
	path := snapshot.Path(filepath.Join(*dataDir, "snapshots"), d.ID, d.Seed)
	if err := snapshot.Write(path, snap); err != nil {
		logger.Fatalf("write snapshot: %v", err)
	}
	logger.Printf("snapshot written to %s", path)

	if *noIndex {
		return
	}
	idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	defer idx.Close()
	if err := idx.UpsertCatalogs(cats); err != nil {
		logger.Printf("index catalogs: %v", err)
	}
	idx.RecordSnapshotRun(path, snap)
	logger.Printf("run indexed")
}
