package content

import (
	"math"
	"reflect"
	"testing"

	"blockforge.dev/internal/gen/blocks"
	"blockforge.dev/internal/gen/grid"
)

func shelterDef() *blocks.Definition {
	return &blocks.Definition{
		TypeID:   "shelter_small",
		Name:     "Small Shelter",
		Category: blocks.CatShelter,
		Dims:     blocks.Dimensions{Width: 8, Height: 3, Depth: 8},
		Tags:     []string{"covered"},
	}
}

func shelterContent() *Definition {
	return &Definition{
		Category:  blocks.CatShelter,
		Structure: Structure{Floor: "deck_plate", Roof: "tarp_roof"},
		Props: []Rule{
			{Component: "Crate", Count: [2]int{2, 4}, Placement: ZoneCornerNW, Rotation: RotRandom},
			{Component: "VendingMachine", Count: [2]int{0, 1}, Placement: ZoneEdgeEast, Rotation: RotFaceCenter},
		},
		Decoration: []Rule{
			{Component: "Tarp", Count: [2]int{1, 2}, Placement: ZoneScattered},
		},
		Lighting: []Rule{
			{Component: "Lantern", Count: [2]int{2, 2}, Placement: ZonePerimeter, YOffset: 2.5, Rotation: RotFaceOut},
		},
		FactionVariants: map[blocks.Faction]*FactionVariant{
			blocks.FactionKurenai: {
				Decoration: []Rule{
					{Component: "Banner", Count: [2]int{2, 2}, Placement: ZoneEdgeNorth, YOffset: 2},
				},
				ColorScheme: "crimson",
			},
		},
	}
}

func newTestGenerator() *Generator {
	cat := NewCatalog()
	cat.Register(shelterContent())
	return NewGenerator(cat)
}

func TestGenerateDeterministic(t *testing.T) {
	g := newTestGenerator()
	def := shelterDef()
	pos := grid.Vec3{X: 24, Y: 0, Z: -16}

	a := g.Generate(def, pos, math.Pi/2, 1337, blocks.FactionNone)
	b := g.Generate(def, pos, math.Pi/2, 1337, blocks.FactionNone)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("independent runs differ:\n%+v\n%+v", a, b)
	}
	if len(a) == 0 {
		t.Fatal("expected some spawns")
	}
}

func TestGenerateNoContentIsEmpty(t *testing.T) {
	g := NewGenerator(NewCatalog())
	if got := g.Generate(shelterDef(), grid.Vec3{}, 0, 1, blocks.FactionNone); got != nil {
		t.Fatalf("no content must produce nil, got %d spawns", len(got))
	}
}

func TestFirstRegistrationWins(t *testing.T) {
	cat := NewCatalog()
	first := &Definition{Category: blocks.CatShelter, Props: []Rule{{Component: "Crate", Count: [2]int{1, 1}, Placement: ZoneCenter}}}
	second := &Definition{Category: blocks.CatShelter, Props: []Rule{{Component: "Barrel", Count: [2]int{1, 1}, Placement: ZoneCenter}}}
	cat.Register(first)
	cat.Register(second)

	got := cat.ContentFor(&blocks.Definition{TypeID: "anything", Category: blocks.CatShelter})
	if got != first {
		t.Fatal("category-wide lookup must return the first registration")
	}
}

func TestSpecificBeatsCategoryWide(t *testing.T) {
	cat := NewCatalog()
	wide := &Definition{Category: blocks.CatShelter}
	specific := &Definition{Category: blocks.CatShelter, BlockTypeID: "shelter_small"}
	cat.Register(wide)
	cat.Register(specific)

	if got := cat.ContentFor(shelterDef()); got != specific {
		t.Fatal("specific definition must beat the category-wide one")
	}
	other := &blocks.Definition{TypeID: "shelter_big", Category: blocks.CatShelter}
	if got := cat.ContentFor(other); got != wide {
		t.Fatal("non-matching type must fall back to the category-wide definition")
	}
}

func TestFactionVariantIsAdditive(t *testing.T) {
	g := newTestGenerator()
	def := shelterDef()
	pos := grid.Vec3{X: 8, Z: 8}

	base := g.Generate(def, pos, 0, 42, blocks.FactionNone)
	overridden := g.Generate(def, pos, 0, 42, blocks.FactionKurenai)

	if len(overridden) <= len(base) {
		t.Fatalf("variant added nothing: base %d, overridden %d", len(base), len(overridden))
	}
	// Base rules carry no faction gates, so the base spawns must survive
	// unchanged as a prefix of the overridden run.
	for i := range base {
		if !reflect.DeepEqual(base[i], overridden[i]) {
			t.Fatalf("base spawn %d changed under faction override:\n%+v\n%+v", i, base[i], overridden[i])
		}
	}
	for _, extra := range overridden[len(base):] {
		if extra.Component != "Banner" {
			t.Fatalf("variant emitted unexpected component %q", extra.Component)
		}
	}
}

func TestFactionRequiredSkipsRule(t *testing.T) {
	cat := NewCatalog()
	cat.Register(&Definition{
		Category: blocks.CatShelter,
		Props: []Rule{
			{Component: "AoiShrine", Count: [2]int{1, 1}, Placement: ZoneCenter, FactionRequired: blocks.FactionAoi},
			{Component: "Crate", Count: [2]int{1, 1}, Placement: ZoneCenter, FactionExcluded: []blocks.Faction{blocks.FactionAoi}},
		},
	})
	g := NewGenerator(cat)
	def := shelterDef()

	asAoi := g.Generate(def, grid.Vec3{}, 0, 7, blocks.FactionAoi)
	if len(asAoi) != 1 || asAoi[0].Component != "AoiShrine" {
		t.Fatalf("aoi run: %+v", asAoi)
	}
	asNone := g.Generate(def, grid.Vec3{}, 0, 7, blocks.FactionNone)
	if len(asNone) != 1 || asNone[0].Component != "Crate" {
		t.Fatalf("neutral run: %+v", asNone)
	}
}

func TestTagsRequiredSkipsRule(t *testing.T) {
	cat := NewCatalog()
	cat.Register(&Definition{
		Category: blocks.CatShelter,
		Props: []Rule{
			{Component: "RainBarrel", Count: [2]int{1, 1}, Placement: ZoneCenter, TagsRequired: []string{"open_air"}},
		},
	})
	g := NewGenerator(cat)
	if got := g.Generate(shelterDef(), grid.Vec3{}, 0, 3, blocks.FactionNone); len(got) != 0 {
		t.Fatalf("tag-gated rule ran on untagged block: %+v", got)
	}
}

func TestRotationModes(t *testing.T) {
	cat := NewCatalog()
	cat.Register(&Definition{
		Category: blocks.CatShelter,
		Props: []Rule{
			{Component: "Fixed", Count: [2]int{2, 2}, Placement: ZoneScattered, Rotation: RotFixed},
			{Component: "Facing", Count: [2]int{2, 2}, Placement: ZoneCornerSE, Rotation: RotFaceCenter},
			{Component: "Outward", Count: [2]int{2, 2}, Placement: ZoneCornerSE, Rotation: RotFaceOut},
			{Component: "Spun", Count: [2]int{3, 3}, Placement: ZoneScattered, Rotation: RotRandom},
		},
	})
	g := NewGenerator(cat)
	pos := grid.Vec3{X: 40, Z: 40}
	blockRot := math.Pi

	for _, s := range g.Generate(shelterDef(), pos, blockRot, 99, blocks.FactionNone) {
		switch s.Component {
		case "Fixed":
			if s.Rotation != blockRot {
				t.Fatalf("fixed rotation %v, want block rotation %v", s.Rotation, blockRot)
			}
		case "Facing":
			want := math.Atan2(pos.Z-s.Position.Z, pos.X-s.Position.X)
			if s.Rotation != want {
				t.Fatalf("face_center rotation %v, want %v", s.Rotation, want)
			}
		case "Outward":
			want := -math.Atan2(pos.Z-s.Position.Z, pos.X-s.Position.X)
			if s.Rotation != want {
				t.Fatalf("face_out rotation %v, want %v", s.Rotation, want)
			}
		case "Spun":
			if s.Rotation < 0 || s.Rotation >= 2*math.Pi {
				t.Fatalf("random rotation out of range: %v", s.Rotation)
			}
		}
	}
}

func TestPropsAreCopied(t *testing.T) {
	cat := NewCatalog()
	rule := Rule{
		Component: "NeonSign",
		Count:     [2]int{1, 1},
		Placement: ZoneEdgeNorth,
		Props:     map[string]any{"text": "RAMEN", "glow": 0.8},
	}
	cat.Register(&Definition{Category: blocks.CatShelter, Decoration: []Rule{rule}})
	g := NewGenerator(cat)

	got := g.Generate(shelterDef(), grid.Vec3{}, 0, 1, blocks.FactionNone)
	if len(got) != 1 {
		t.Fatalf("got %d spawns", len(got))
	}
	got[0].Props["text"] = "SUSHI"
	again := g.Generate(shelterDef(), grid.Vec3{}, 0, 1, blocks.FactionNone)
	if again[0].Props["text"] != "RAMEN" {
		t.Fatal("mutating a spawn's props leaked into the rule")
	}
}

func TestSpawnSeedsAreStableAndVaried(t *testing.T) {
	g := newTestGenerator()
	def := shelterDef()
	a := g.Generate(def, grid.Vec3{}, 0, 555, blocks.FactionNone)
	b := g.Generate(def, grid.Vec3{}, 0, 555, blocks.FactionNone)
	seeds := map[int64]bool{}
	for i := range a {
		if a[i].Seed != b[i].Seed {
			t.Fatalf("spawn %d seed not reproducible", i)
		}
		if a[i].Seed < 0 {
			t.Fatalf("spawn %d negative seed %d", i, a[i].Seed)
		}
		seeds[a[i].Seed] = true
	}
	if len(a) > 2 && len(seeds) < 2 {
		t.Fatal("all spawn seeds identical")
	}
}
