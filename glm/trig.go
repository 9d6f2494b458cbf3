package glm

import "golang.org/x/mobile/exp/f32"

// Sincos returns sine and cosine of the angle in float32 precision.
func Sincos(r Rad) (sin, cos float32) {
	return f32.Sin(float32(r)), f32.Cos(float32(r))
}
