package frame

import "unsafe"

// AsByteSlice returns the memory of value as bytes, without copying.
func AsByteSlice[T any](value *T) []byte {
	var zeroT T

	n := unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(value))

	return unsafe.Slice(ptr, n)
}

// SliceAsBytes returns the backing memory of values as bytes, without copying.
func SliceAsBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}

	var zeroT T

	n := unsafe.Sizeof(zeroT) * uintptr(len(values))
	ptr := (*byte)(unsafe.Pointer(unsafe.SliceData(values)))

	return unsafe.Slice(ptr, n)
}
