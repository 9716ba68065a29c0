// Package snapshot persists assembled districts as zstd-compressed files:
// one plain-JSON header line for cheap inspection, then the JSON body.
package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/content"
	"blockforge.dev/internal/gen/district"
	"blockforge.dev/internal/gen/grid"
)

const FormatVersion = 1

type Header struct {
	Version    int    `json:"version"`
	DistrictID string `json:"district_id"`
	CreatedAt  string `json:"created_at"`
}

type BlockV1 struct {
	ID              string            `json:"id"`
	TypeID          string            `json:"type_id"`
	Position        grid.Vec3         `json:"position"`
	Rotation        int               `json:"rotation"`
	Connections     map[string]string `json:"connections,omitempty"`
	Seed            int64             `json:"seed"`
	FactionOverride string            `json:"faction_override,omitempty"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed    int64  `json:"seed"`
	Width   int    `json:"width"`
	Depth   int    `json:"depth"`
	Faction string `json:"faction,omitempty"`

	// Catalog digests captured at generation time. Replaying the seed
	// against catalogs with the same digests reproduces the district.
	BlocksDigest  string `json:"blocks_digest"`
	ContentDigest string `json:"content_digest"`

	Blocks []BlockV1       `json:"blocks"`
	Spawns []content.Spawn `json:"spawns"`
	Digest string          `json:"digest"`
}

// FromDistrict captures a district into its snapshot form.
func FromDistrict(d *district.District, blocksDigest, contentDigest string) SnapshotV1 {
	snap := SnapshotV1{
		Header: Header{
			Version:    FormatVersion,
			DistrictID: d.ID,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		},
		Seed:          d.Seed,
		Width:         d.Width,
		Depth:         d.Depth,
		Faction:       string(d.Faction),
		BlocksDigest:  blocksDigest,
		ContentDigest: contentDigest,
		Spawns:        d.Spawns,
		Digest:        d.Digest,
	}
	for _, in := range d.Blocks {
		snap.Blocks = append(snap.Blocks, BlockV1{
			ID:              in.ID,
			TypeID:          in.TypeID,
			Position:        in.Position,
			Rotation:        in.Rotation,
			Connections:     in.Connections,
			Seed:            in.Seed,
			FactionOverride: string(in.FactionOverride),
		})
	}
	return snap
}

// Path returns the canonical snapshot path for a district under dir.
func Path(dir string, districtID string, seed int64) string {
	return filepath.Join(dir, fmt.Sprintf("district_%s_%d.json.zst", districtID, seed))
}

func Write(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func Read(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line; the body carries it too.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Header.Version != FormatVersion {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}

// ToDistrict restores the district carried by a snapshot. Definitions are not
// resolved; restored instances reference the catalog only by type ID.
func ToDistrict(snap SnapshotV1) *district.District {
	d := &district.District{
		ID:      snap.Header.DistrictID,
		Seed:    snap.Seed,
		Width:   snap.Width,
		Depth:   snap.Depth,
		Faction: blocks.Faction(snap.Faction),
		Spawns:  snap.Spawns,
		Digest:  snap.Digest,
	}
	for _, b := range snap.Blocks {
		d.Blocks = append(d.Blocks, &blocks.Instance{
			ID:              b.ID,
			TypeID:          b.TypeID,
			Position:        b.Position,
			Rotation:        b.Rotation,
			Connections:     b.Connections,
			Seed:            b.Seed,
			FactionOverride: blocks.Faction(b.FactionOverride),
		})
	}
	return d
}
