// Package gf2 implements bit-packed vectors and matrices over the two-element
// field, and the Gaussian elimination used to find exponent-parity
// dependencies between sieve relations.
package gf2

import (
	"errors"
	"fmt"
	"math/bits"
)

const wordSize = 64

// ErrWidthMismatch is returned when a row does not have the matrix width.
var ErrWidthMismatch = errors.New("row width does not match matrix")

// Vector is a bit-packed GF(2) vector. Bit i lives in word i/64.
type Vector []uint64

// NewVector returns a zero vector able to hold n bits.
func NewVector(n int) Vector {
	return make(Vector, (n+wordSize-1)/wordSize)
}

// Set sets bit i to 1.
func (v Vector) Set(i int) {
	v[i/wordSize] |= 1 << uint(i%wordSize)
}

// Flip toggles bit i.
func (v Vector) Flip(i int) {
	v[i/wordSize] ^= 1 << uint(i%wordSize)
}

// Bit reports whether bit i is set.
func (v Vector) Bit(i int) bool {
	return v[i/wordSize]&(1<<uint(i%wordSize)) != 0
}

// Xor adds o into v in place. Both vectors must have the same length.
func (v Vector) Xor(o Vector) {
	for i := range v {
		v[i] ^= o[i]
	}
}

// IsZero reports whether every bit is clear.
func (v Vector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}

// Ones returns the indices of the set bits in ascending order.
func (v Vector) Ones() []int {
	var out []int
	for wi, w := range v {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, wi*wordSize+tz)
			w &= w - 1
		}
	}
	return out
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Matrix is a row-major GF(2) matrix with a fixed column count.
type Matrix struct {
	cols int
	rows []Vector
}

// NewMatrix creates an empty matrix with the given number of columns.
func NewMatrix(cols int) *Matrix {
	return &Matrix{cols: cols}
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Rows returns the number of rows appended so far.
func (m *Matrix) Rows() int { return len(m.rows) }

// Row returns row i. The caller must not modify it.
func (m *Matrix) Row(i int) Vector { return m.rows[i] }

// AppendRow copies v into a new row.
func (m *Matrix) AppendRow(v Vector) error {
	if len(v) != len(NewVector(m.cols)) {
		return fmt.Errorf("%w: got %d words, want %d", ErrWidthMismatch, len(v), len(NewVector(m.cols)))
	}
	m.rows = append(m.rows, v.Clone())
	return nil
}
