package catalogs

import (
	"os"
	"path/filepath"
	"testing"

	"blockforge.dev/internal/gen/blocks"
)

const (
	configDir = "../../../configs"
	schemaDir = "../../../schemas"
)

func TestLoadRealConfigs(t *testing.T) {
	c, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Blocks.Defs) == 0 {
		t.Fatal("no block definitions loaded")
	}
	if len(c.Blocks.Order) != len(c.Blocks.Defs) {
		t.Fatalf("order/defs mismatch: %d vs %d", len(c.Blocks.Order), len(c.Blocks.Defs))
	}
	if c.Blocks.Digest == "" || c.Content.Digest == "" {
		t.Fatal("missing catalog digest")
	}
	if c.Content.Catalog.Len() == 0 {
		t.Fatal("no content definitions loaded")
	}

	// Every content category must have a matching block pool.
	for _, cat := range c.Content.Catalog.Categories() {
		if len(c.Blocks.Pools[cat]) == 0 {
			t.Fatalf("content category %q has no block pool", cat)
		}
	}

	// Every block must resolve to some content definition.
	for _, id := range c.Blocks.Order {
		def := c.Blocks.Defs[id]
		if c.Content.Catalog.ContentFor(def) == nil {
			t.Fatalf("block %q resolves no content", id)
		}
	}
}

func TestLoadDigestStable(t *testing.T) {
	a, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Blocks.Digest != b.Blocks.Digest || a.Content.Digest != b.Content.Digest {
		t.Fatal("digests changed between identical loads")
	}
}

func TestPoolOrderFollowsFile(t *testing.T) {
	c, err := Load(configDir, schemaDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pool := c.Blocks.Pools[blocks.CatShelter]
	if len(pool) < 2 {
		t.Fatalf("expected at least 2 shelter blocks, got %d", len(pool))
	}
	if pool[0].TypeID != "shelter_small" || pool[1].TypeID != "shelter_lean_to" {
		t.Fatalf("pool order diverged from file order: %s, %s", pool[0].TypeID, pool[1].TypeID)
	}
}

func writeConfig(t *testing.T, blocksJSON, contentJSON string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(blocksJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "content.json"), []byte(contentJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

const minimalBlock = `[{"type_id":"b1","name":"B","category":"rtb_shelter","grid_size":[1,1],
"dimensions":{"width":8,"height":3,"depth":8}}]`

func TestLoadRejectsDuplicateTypeID(t *testing.T) {
	dup := `[
  {"type_id":"b1","name":"B","category":"rtb_shelter","grid_size":[1,1],"dimensions":{"width":8,"height":3,"depth":8}},
  {"type_id":"b1","name":"B2","category":"rtb_shelter","grid_size":[1,1],"dimensions":{"width":8,"height":3,"depth":8}}
]`
	dir := writeConfig(t, dup, `[]`)
	if _, err := Load(dir, schemaDir); err == nil {
		t.Fatal("duplicate type_id accepted")
	}
}

func TestLoadRejectsBadSnapDirection(t *testing.T) {
	bad := `[{"type_id":"b1","name":"B","category":"rtb_shelter","grid_size":[1,1],
"dimensions":{"width":8,"height":3,"depth":8},
"snap_points":[{"id":"s","type":"floor_edge","direction":"inward","local_position":{},"width":8}]}]`
	dir := writeConfig(t, bad, `[]`)
	if _, err := Load(dir, schemaDir); err == nil {
		t.Fatal("bad snap direction accepted")
	}
}

func TestLoadRejectsUnknownPlacement(t *testing.T) {
	bad := `[{"category":"rtb_shelter","props":[{"component":"Crate","count":[1,1],"placement":"orbit"}]}]`
	dir := writeConfig(t, minimalBlock, bad)
	if _, err := Load(dir, schemaDir); err == nil {
		t.Fatal("unknown placement accepted")
	}
}

func TestLoadRejectsOutOfRangeProbability(t *testing.T) {
	bad := `[{"category":"rtb_shelter","props":[{"component":"Crate","count":[1,1],"placement":"center","probability":1.5}]}]`
	dir := writeConfig(t, minimalBlock, bad)
	if _, err := Load(dir, schemaDir); err == nil {
		t.Fatal("probability 1.5 accepted")
	}
}
