package town

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid town config")

// MaxGridSize limits the number of blocks per axis so that the
// generated mesh always stays addressable with 32 bit indices.
const MaxGridSize = 1024

// Config holds every input of the generator. Two calls to Generate
// with the same Config produce the same Town.
type Config struct {
	Seed uint64 `yaml:"seed"`

	// number of blocks per axis
	GridSize int `yaml:"gridSize"`

	// edge length of a single block in world units
	BlockSize float32 `yaml:"blockSize"`

	RoadWidth float32 `yaml:"roadWidth"`

	// probability that a block receives a building, in [0, 1]
	BuildingDensity float32 `yaml:"buildingDensity"`
}

// DefaultConfig returns the configuration of the reference town.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		GridSize:        10,
		BlockSize:       20,
		RoadWidth:       4,
		BuildingDensity: 0.7,
	}
}

func (c Config) Validate() error {
	switch {
	case c.GridSize < 1 || c.GridSize > MaxGridSize:
		return fmt.Errorf("%w: gridSize must be in [1, %d], got %d", ErrInvalidConfig, MaxGridSize, c.GridSize)

	case !(c.BlockSize > 0) || isInf(c.BlockSize):
		return fmt.Errorf("%w: blockSize must be positive, got %v", ErrInvalidConfig, c.BlockSize)

	case !(c.RoadWidth > 0) || isInf(c.RoadWidth):
		return fmt.Errorf("%w: roadWidth must be positive, got %v", ErrInvalidConfig, c.RoadWidth)

	case !(c.BuildingDensity >= 0 && c.BuildingDensity <= 1):
		return fmt.Errorf("%w: buildingDensity must be in [0, 1], got %v", ErrInvalidConfig, c.BuildingDensity)
	}

	return nil
}

// Extent returns the edge length of the whole grid.
func (c Config) Extent() float32 {
	return float32(c.GridSize) * c.BlockSize
}

func isInf(value float32) bool {
	return math.IsInf(float64(value), 0)
}
