package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	SnapTolerance    float64 `yaml:"snap_tolerance"`
	MaxDistrictWidth int     `yaml:"max_district_width"`
	MaxDistrictDepth int     `yaml:"max_district_depth"`

	// Per-category selection weights for district assembly. Categories
	// absent from the map never appear in assembled districts.
	CategoryWeights map[string]int `yaml:"category_weights"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t.withDefaults(), nil
}

func (t Tuning) withDefaults() Tuning {
	if t.SnapTolerance <= 0 {
		t.SnapTolerance = 0.5
	}
	if t.MaxDistrictWidth <= 0 {
		t.MaxDistrictWidth = 64
	}
	if t.MaxDistrictDepth <= 0 {
		t.MaxDistrictDepth = 64
	}
	return t
}

// Default returns the tuning used when no tuning.yaml is present.
func Default() Tuning {
	return Tuning{}.withDefaults()
}
