package glm

import "golang.org/x/exp/constraints"

type float interface {
	constraints.Float
}

type Numeric interface {
	float | uint32
}

type numeric = Numeric

// Rad is an angle in radians.
type Rad float32
