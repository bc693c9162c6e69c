// Package numtheory holds the arbitrary-precision number theory shared by the
// sieve and the RSA key helpers: extended Euclid, modular inverse, binary
// modular exponentiation, Euler's criterion and a prime sieve.
package numtheory

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNoInverse is returned when gcd(a, m) != 1.
	ErrNoInverse = errors.New("modular inverse does not exist")

	// ErrInvalidExponent is returned by FastPow for a negative exponent.
	ErrInvalidExponent = errors.New("exponent must be non-negative")

	// ErrNonPositiveModulus is returned when a modulus is zero or negative.
	ErrNonPositiveModulus = errors.New("modulus must be positive")
)

var bigOne = big.NewInt(1)

// ExtendedGCD returns (g, x, y) with a*x + b*y = g = gcd(a, b).
//
// The operands may have any sign or be zero; g is never negative.
// ExtendedGCD(0, 0) returns (0, 1, 0).
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		tmp.Sub(oldR, tmp)
		oldR, r = r, oldR.Set(tmp)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS, s = s, oldS.Set(tmp)

		tmp.Mul(q, t)
		tmp.Sub(oldT, tmp)
		oldT, t = t, oldT.Set(tmp)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns i in [0, m) with a*i = 1 (mod m).
//
// Args:
//   - a: value to invert, any sign
//   - m: modulus, must be positive
//
// Returns:
//   - the inverse, or an error wrapping ErrNoInverse when gcd(a, m) != 1
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s mod %s", ErrNoInverse, a, m)
	}

	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: %s mod %s (gcd %s)", ErrNoInverse, a, m, g)
	}
	return x.Mod(x, m), nil
}

// FastPow computes base^exp mod mod by square-and-multiply, one squaring per
// bit of exp. A zero exponent yields 1 mod mod. Negative bases are reduced
// into [0, mod) first.
func FastPow(base, exp, mod *big.Int) (*big.Int, error) {
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExponent, exp)
	}
	if mod.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveModulus, mod)
	}

	result := new(big.Int).Mod(bigOne, mod)
	b := new(big.Int).Mod(base, mod)
	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, mod)
		}
		b.Mul(b, b)
		b.Mod(b, mod)
	}
	return result, nil
}

// IsPerfectSquare reports whether n = r*r for some integer r.
func IsPerfectSquare(n *big.Int) bool {
	if n.Sign() < 0 {
		return false
	}
	r := new(big.Int).Sqrt(n)
	r.Mul(r, r)
	return r.Cmp(n) == 0
}

// IsOdd reports whether n is odd.
func IsOdd(n *big.Int) bool {
	return n.Bit(0) == 1
}
