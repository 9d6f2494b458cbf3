package glm

// Vec2 is a point or direction on the ground plane.
type Vec2[T numeric] [2]T

// Lift places the vector on the horizontal plane at height y,
// the second component becomes z.
func (lhs Vec2[T]) Lift(y T) Vec3[T] {
	return Vec3[T]{lhs[0], y, lhs[1]}
}
