// Package sample defines the basic data model shared by every PHY
// component: sample times and IQ samples (§3).
//
// Grounded on original_source/lib/include/dectnrp/radio/complex.hpp, which
// typedefs a single-precision complex sample; Go's built-in complex64 is
// the exact same IEEE-754 single-precision real/imag pair, so no wrapper
// type is introduced for the scalar itself.
package sample

// Time is a signed 64-bit index of samples since radio start (§3). All
// absolute times in the system are sample times; durations are sample
// counts expressed as plain int64.
type Time int64

// Complex is a single IQ sample: IEEE-754 single-precision real/imag pair.
type Complex = complex64

// Vector is a contiguous, single-antenna run of IQ samples.
type Vector []Complex

// Matrix is one Vector per antenna. Index 0 is antenna 0.
type Matrix []Vector

// NewMatrix allocates nAnt vectors of length n each, zeroed.
func NewMatrix(nAnt, n int) Matrix {
	m := make(Matrix, nAnt)
	for a := range m {
		m[a] = make(Vector, n)
	}
	return m
}

// Power returns |x|^2 without the sqrt a magnitude computation would cost.
func Power(x Complex) float32 {
	r, i := real(x), imag(x)
	return r*r + i*i
}
