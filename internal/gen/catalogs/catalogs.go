// Package catalogs loads the static block and content catalogs from config
// files. Catalogs are loaded once at startup, validated against their JSON
// Schemas, digested, and never mutated afterwards; pool order follows file
// order and is part of the determinism contract.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/content"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Content ContentCatalog
}

type BlockCatalog struct {
	Defs   map[string]*blocks.Definition
	Order  []string
	Pools  map[blocks.Category][]*blocks.Definition
	Digest string
}

type ContentCatalog struct {
	Catalog *content.Catalog
	Digest  string
}

// Load reads blocks.json and content.json from configDir, validating each
// against its schema in schemaDir.
func Load(configDir, schemaDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), filepath.Join(schemaDir, "blocks.schema.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadContent(filepath.Join(configDir, "content.json"), filepath.Join(schemaDir, "content.schema.json"), &c.Content); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func validateAgainst(schemaPath string, raw []byte) error {
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("compile %s: %w", filepath.Base(schemaPath), err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema %s: %w", filepath.Base(schemaPath), err)
	}
	return nil
}

func loadBlocks(path, schemaPath string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	if err := validateAgainst(schemaPath, raw); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}

	var defs []*blocks.Definition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}

	out.Defs = map[string]*blocks.Definition{}
	out.Pools = map[blocks.Category][]*blocks.Definition{}
	for _, d := range defs {
		if d.TypeID == "" {
			return fmt.Errorf("blocks.json: empty type_id")
		}
		if _, dup := out.Defs[d.TypeID]; dup {
			return fmt.Errorf("blocks.json: duplicate type_id %q", d.TypeID)
		}
		if d.Category == "" {
			return fmt.Errorf("blocks.json: %s: empty category", d.TypeID)
		}
		if d.Dims.Width <= 0 || d.Dims.Depth <= 0 {
			return fmt.Errorf("blocks.json: %s: non-positive footprint", d.TypeID)
		}
		for _, sp := range d.SnapPoints {
			if sp.ID == "" {
				return fmt.Errorf("blocks.json: %s: snap point with empty id", d.TypeID)
			}
			if !blocks.ValidSnapType(sp.Type) {
				return fmt.Errorf("blocks.json: %s/%s: unknown snap type %q", d.TypeID, sp.ID, sp.Type)
			}
			if !blocks.ValidDirection(sp.Dir) {
				return fmt.Errorf("blocks.json: %s/%s: unknown direction %q", d.TypeID, sp.ID, sp.Dir)
			}
		}
		out.Defs[d.TypeID] = d
		out.Order = append(out.Order, d.TypeID)
		out.Pools[d.Category] = append(out.Pools[d.Category], d)
	}
	return nil
}

func loadContent(path, schemaPath string, out *ContentCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	if err := validateAgainst(schemaPath, raw); err != nil {
		return fmt.Errorf("content.json: %w", err)
	}

	var defs []*content.Definition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("content.json: %w", err)
	}

	out.Catalog = content.NewCatalog()
	for i, d := range defs {
		if d.Category == "" {
			return fmt.Errorf("content.json: entry %d: empty category", i)
		}
		if err := checkRules(d.Props, fmt.Sprintf("entry %d props", i)); err != nil {
			return fmt.Errorf("content.json: %w", err)
		}
		if err := checkRules(d.Decoration, fmt.Sprintf("entry %d decoration", i)); err != nil {
			return fmt.Errorf("content.json: %w", err)
		}
		if err := checkRules(d.Lighting, fmt.Sprintf("entry %d lighting", i)); err != nil {
			return fmt.Errorf("content.json: %w", err)
		}
		for faction, v := range d.FactionVariants {
			if v == nil {
				continue
			}
			where := fmt.Sprintf("entry %d variant %s", i, faction)
			if err := checkRules(v.Props, where); err != nil {
				return fmt.Errorf("content.json: %w", err)
			}
			if err := checkRules(v.Decoration, where); err != nil {
				return fmt.Errorf("content.json: %w", err)
			}
		}
		out.Catalog.Register(d)
	}
	return nil
}

func checkRules(rules []content.Rule, where string) error {
	for _, r := range rules {
		if r.Component == "" {
			return fmt.Errorf("%s: rule with empty component", where)
		}
		if !content.ValidZone(r.Placement) {
			return fmt.Errorf("%s: %s: unknown placement %q", where, r.Component, r.Placement)
		}
		if r.Rotation != "" && !content.ValidRotationMode(r.Rotation) {
			return fmt.Errorf("%s: %s: unknown rotation mode %q", where, r.Component, r.Rotation)
		}
		if r.Probability != nil && (*r.Probability < 0 || *r.Probability > 1) {
			return fmt.Errorf("%s: %s: probability out of [0,1]", where, r.Component)
		}
		if r.Count[1] < 0 || r.Count[0] < 0 {
			return fmt.Errorf("%s: %s: negative count", where, r.Component)
		}
	}
	return nil
}
