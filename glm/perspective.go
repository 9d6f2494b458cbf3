package glm

import "math"

// Perspective builds a right handed projection matrix mapping depth
// into the [0, 1] range used by webgpu, metal and vulkan.
func Perspective[T float](fovY Rad, aspect, near, far T) Mat4[T] {
	f := T(1 / math.Tan(float64(fovY*0.5)))

	return Mat4Of([4][4]T{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, far / (near - far), -1},
		{0, 0, (far * near) / (near - far), 0},
	})
}

// LookAt builds the view matrix of a viewer at eye looking towards center.
// The view direction maps to -z.
func LookAt[T float](eye, center, up Vec3[T]) Mat4[T] {
	forward := center.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()
	upward := right.Cross(forward)

	// the transposed camera basis
	rotation := Mat4Of([4][4]T{
		{right[0], upward[0], -forward[0], 0},
		{right[1], upward[1], -forward[1], 0},
		{right[2], upward[2], -forward[2], 0},
		{0, 0, 0, 1},
	})

	return rotation.Mul(TranslationMat4(-eye[0], -eye[1], -eye[2]))
}

func DegToRad[T Numeric](deg T) Rad {
	return Rad(float64(deg) * (math.Pi / 180))
}

func RadToDeg[T Numeric](rad Rad) (deg T) {
	return T(float64(rad) * (180 / math.Pi))
}
