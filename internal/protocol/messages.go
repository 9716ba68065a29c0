package protocol

import "blockforge.dev/internal/gen/content"

// GenerateMsg asks the server to assemble one district.
type GenerateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`

	DistrictID string `json:"district_id"`
	Seed       int64  `json:"seed"`
	Width      int    `json:"width"`
	Depth      int    `json:"depth"`
	Faction    string `json:"faction,omitempty"`
}

// CatalogMsg describes what the server can generate. Sent once per
// connection before any SPAWNS.
type CatalogMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	Categories    []string `json:"categories"`
	BlockTypes    []string `json:"block_types"`
	BlocksDigest  string   `json:"blocks_digest"`
	ContentDigest string   `json:"content_digest"`
}

// SpawnV1 is the wire form of one resolved component spawn.
type SpawnV1 struct {
	Component string         `json:"component"`
	Position  [3]float64     `json:"position"`
	Rotation  float64        `json:"rotation"`
	Props     map[string]any `json:"props,omitempty"`
	Seed      int64          `json:"seed"`
}

// NewSpawnV1 converts a generator spawn to its wire form.
func NewSpawnV1(s content.Spawn) SpawnV1 {
	return SpawnV1{
		Component: s.Component,
		Position:  [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
		Rotation:  s.Rotation,
		Props:     s.Props,
		Seed:      s.Seed,
	}
}

// SpawnsMsg carries one block's spawns. The renderer on the other end owns
// the component name lookup; unknown names are its concern, not ours.
type SpawnsMsg struct {
	Type string `json:"type"`

	DistrictID string    `json:"district_id"`
	BlockID    string    `json:"block_id"`
	BlockType  string    `json:"block_type"`
	Spawns     []SpawnV1 `json:"spawns"`
}

// DoneMsg closes a generation stream with its totals and digest.
type DoneMsg struct {
	Type string `json:"type"`

	DistrictID string `json:"district_id"`
	Blocks     int    `json:"blocks"`
	Spawns     int    `json:"spawns"`
	Digest     string `json:"digest"`
}

// ErrorMsg reports a failed request. Code is one of the E_* constants.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
