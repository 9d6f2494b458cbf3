package glm

// Vec4 is a homogeneous coordinate.
type Vec4[T numeric] [4]T

// Truncate drops the w component.
func (lhs Vec4[T]) Truncate() Vec3[T] {
	return Vec3[T]{lhs[0], lhs[1], lhs[2]}
}

// Project performs the perspective divide.
func (lhs Vec4[T]) Project() Vec3[T] {
	w := lhs[3]
	return Vec3[T]{lhs[0] / w, lhs[1] / w, lhs[2] / w}
}
