package town

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/oliverbestmann/town/glm"
)

// Ranges buildings are sampled from. These do not depend on the Config.
const (
	minBuildingWidth  = 6
	maxBuildingWidth  = 14
	minBuildingHeight = 5
	maxBuildingHeight = 40

	// maximum offset of a building from the center of its block, per axis
	maxBuildingJitter = 2
)

// namespace for the content derived Town.ID
var townNamespace = uuid.MustParse("3c1b8f5e-7a43-4d0e-9a4f-4f2f0d1c9b6a")

// Town is the abstract description of a generated town. It is never
// modified after Generate returns it, regenerating produces a new Town.
type Town struct {
	// ID identifies the town by its configuration. Equal configs yield equal IDs.
	ID uuid.UUID

	config    Config
	roads     []Road
	buildings []Building
}

func (t *Town) Config() Config {
	return t.config
}

// Roads returns a copy of the road segments in generation order.
func (t *Town) Roads() []Road {
	return slices.Clone(t.roads)
}

// Buildings returns a copy of the buildings in generation order.
func (t *Town) Buildings() []Building {
	return slices.Clone(t.buildings)
}

// GroundHalfExtent is half the edge length of the ground quad. The ground
// reaches half a road width beyond the outermost roads.
func (t *Town) GroundHalfExtent() float32 {
	return t.config.Extent()/2 + t.config.RoadWidth/2
}

// Generate builds the town described by the config. The result is a pure
// function of the config.
func Generate(config Config) (*Town, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	rng := NewRandom(config.Seed)

	town := &Town{
		ID:        townID(config),
		config:    config,
		roads:     generateRoads(config),
		buildings: generateBuildings(config, rng),
	}

	return town, nil
}

// generateRoads lays out gridSize+1 roads along the x axis, followed by
// gridSize+1 roads along the z axis.
func generateRoads(config Config) []Road {
	half := config.Extent() / 2
	count := config.GridSize + 1

	roads := make([]Road, 0, 2*count)

	for idx := range count {
		z := gridLine(config, idx)
		roads = append(roads, Road{
			Start: glm.Vec2f{-half, z},
			End:   glm.Vec2f{half, z},
			Width: config.RoadWidth,
		})
	}

	for idx := range count {
		x := gridLine(config, idx)
		roads = append(roads, Road{
			Start: glm.Vec2f{x, -half},
			End:   glm.Vec2f{x, half},
			Width: config.RoadWidth,
		})
	}

	return roads
}

// generateBuildings visits the cells with x in the outer and z in the inner
// loop. Each cell consumes one draw for the placement trial. Occupied cells
// then draw width, depth, height, x and z jitter, the type and three
// color channels, in exactly that order.
func generateBuildings(config Config, rng *Random) []Building {
	var buildings []Building

	for gx := range config.GridSize {
		for gz := range config.GridSize {
			if rng.Float() >= config.BuildingDensity {
				continue
			}

			width := rng.Range(minBuildingWidth, maxBuildingWidth)
			depth := rng.Range(minBuildingWidth, maxBuildingWidth)
			height := rng.Range(minBuildingHeight, maxBuildingHeight)

			jitterX := rng.Range(-maxBuildingJitter, maxBuildingJitter)
			jitterZ := rng.Range(-maxBuildingJitter, maxBuildingJitter)

			typ := BuildingType(min(int(rng.Float()*float32(buildingTypeCount)), int(buildingTypeCount)-1))
			color := buildingPalette[typ].color(rng)

			buildings = append(buildings, Building{
				Position: glm.Vec3f{
					cellCenter(config, gx) + jitterX,
					0,
					cellCenter(config, gz) + jitterZ,
				},
				Size:  glm.Vec3f{width, height, depth},
				Color: color,
				Type:  typ,
			})
		}
	}

	return buildings
}

// gridLine returns the coordinate of the road with the given index.
func gridLine(config Config, idx int) float32 {
	return -config.Extent()/2 + float32(float32(idx)*config.BlockSize)
}

// cellCenter returns the coordinate of the center of the block with the given index.
func cellCenter(config Config, idx int) float32 {
	return -config.Extent()/2 + float32((float32(idx)+0.5)*config.BlockSize)
}

func townID(config Config) uuid.UUID {
	key := fmt.Appendf(nil, "%d:%d:%08x:%08x:%08x",
		config.Seed,
		config.GridSize,
		math.Float32bits(config.BlockSize),
		math.Float32bits(config.RoadWidth),
		math.Float32bits(config.BuildingDensity),
	)

	return uuid.NewSHA1(townNamespace, key)
}
