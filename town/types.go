package town

import (
	"fmt"

	"github.com/oliverbestmann/town/glm"
)

//go:generate go tool stringer -type=BuildingType -trimprefix=BuildingType

// BuildingType is the category of a building. The set is closed,
// buildingTypeCount marks its end.
type BuildingType uint8

const (
	BuildingTypeResidential BuildingType = iota
	BuildingTypeCommercial
	BuildingTypeIndustrial

	buildingTypeCount
)

// Building is a box standing on the ground plane. Position is the
// center of its footprint at ground level.
type Building struct {
	Position glm.Vec3f    `yaml:"position"`
	Size     glm.Vec3f    `yaml:"size"`
	Color    glm.Vec3f    `yaml:"color"`
	Type     BuildingType `yaml:"type"`
}

// Road is a straight segment on the ground plane. Points are given as (x, z).
type Road struct {
	Start glm.Vec2f `yaml:"start"`
	End   glm.Vec2f `yaml:"end"`
	Width float32   `yaml:"width"`
}

type paletteEntry struct {
	Base   glm.Vec3f
	Jitter float32
}

// buildingPalette maps each building type to its base color and the
// maximum per channel deviation from it. Extend by adding a row.
var buildingPalette = [buildingTypeCount]paletteEntry{
	BuildingTypeResidential: {Base: glm.Vec3f{0.80, 0.62, 0.48}, Jitter: 0.08},
	BuildingTypeCommercial:  {Base: glm.Vec3f{0.55, 0.65, 0.78}, Jitter: 0.06},
	BuildingTypeIndustrial:  {Base: glm.Vec3f{0.58, 0.56, 0.52}, Jitter: 0.05},
}

// color draws one jitter value per channel, in rgb order.
func (p paletteEntry) color(rng *Random) glm.Vec3f {
	var color glm.Vec3f

	for idx := range color {
		offset := float32((rng.Float()*2 - 1) * p.Jitter)
		color[idx] = min(max(p.Base[idx]+offset, 0), 1)
	}

	return color
}

func (t BuildingType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *BuildingType) UnmarshalText(text []byte) error {
	for candidate := range buildingTypeCount {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown building type %q", text)
}
