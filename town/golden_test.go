package town

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

type goldenTown struct {
	Config    Config     `yaml:"config"`
	Next      []uint64   `yaml:"next"`
	Float     []float32  `yaml:"float"`
	Roads     []Road     `yaml:"roads"`
	Buildings []Building `yaml:"buildings"`
}

func loadGolden(t *testing.T, path string) goldenTown {
	t.Helper()

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden fixture: %v", err)
	}

	var golden goldenTown
	if err := yaml.Unmarshal(buf, &golden); err != nil {
		t.Fatalf("decode golden fixture: %v", err)
	}

	return golden
}

func TestGoldenSeed42(t *testing.T) {
	golden := loadGolden(t, "testdata/golden_seed42.yaml")

	want := Config{Seed: 42, GridSize: 5, BlockSize: 20, RoadWidth: 4, BuildingDensity: 0.7}
	if golden.Config != want {
		t.Fatalf("fixture config = %+v, want %+v", golden.Config, want)
	}

	rng := NewRandom(golden.Config.Seed)
	for idx, value := range golden.Next {
		if got := rng.Next(); got != value {
			t.Errorf("Next() #%d = %d, want %d", idx, got, value)
		}
	}

	rng = NewRandom(golden.Config.Seed)
	for idx, value := range golden.Float {
		if got := rng.Float(); got != value {
			t.Errorf("Float() #%d = %v, want %v", idx, got, value)
		}
	}

	town, err := Generate(golden.Config)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	roads := town.Roads()
	if len(roads) != len(golden.Roads) {
		t.Fatalf("got %d roads, want %d", len(roads), len(golden.Roads))
	}

	for idx, road := range roads {
		if road != golden.Roads[idx] {
			t.Errorf("road %d = %+v, want %+v", idx, road, golden.Roads[idx])
		}
	}

	buildings := town.Buildings()
	if len(buildings) != len(golden.Buildings) {
		t.Fatalf("got %d buildings, want %d", len(buildings), len(golden.Buildings))
	}

	for idx, building := range buildings {
		expected := golden.Buildings[idx]

		if building.Type != expected.Type {
			t.Errorf("building %d type = %v, want %v", idx, building.Type, expected.Type)
		}

		assertVecEqual(t, "position", idx, building.Position, expected.Position)
		assertVecEqual(t, "size", idx, building.Size, expected.Size)
		assertVecEqual(t, "color", idx, building.Color, expected.Color)
	}
}

func assertVecEqual(t *testing.T, field string, idx int, got, want [3]float32) {
	t.Helper()

	// the fixture holds exact float32 values, generation is deterministic
	if got != want {
		t.Errorf("building %d %s = %v, want %v", idx, field, got, want)
	}
}
