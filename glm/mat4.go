package glm

// Mat4 is a column major 4x4 matrix, laid out the same way
// the shaders expect it in a uniform buffer.
type Mat4[T numeric] [16]T

// Mat4Of builds a matrix from its four columns.
func Mat4Of[T numeric](columns [4][4]T) Mat4[T] {
	var m Mat4[T]
	for col, values := range columns {
		copy(m[col*4:], values[:])
	}

	return m
}

func IdentityMat4[T numeric]() Mat4[T] {
	return Mat4Of([4][4]T{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
}

func TranslationMat4[T numeric](x, y, z T) Mat4[T] {
	m := IdentityMat4[T]()
	m[12], m[13], m[14] = x, y, z
	return m
}

func (lhs Mat4[T]) column(idx int) Vec4[T] {
	return Vec4[T]{lhs[idx*4], lhs[idx*4+1], lhs[idx*4+2], lhs[idx*4+3]}
}

func (lhs Mat4[T]) Mul(rhs Mat4[T]) Mat4[T] {
	var result Mat4[T]

	for col := range 4 {
		column := lhs.Transform(rhs.column(col))
		copy(result[col*4:], column[:])
	}

	return result
}

func (lhs Mat4[T]) Transform(rhs Vec4[T]) Vec4[T] {
	var result Vec4[T]

	for col := range 4 {
		for row := range 4 {
			result[row] += lhs[col*4+row] * rhs[col]
		}
	}

	return result
}
