package numtheory

import "math/big"

// IsResidue reports whether n is a quadratic residue modulo the prime p,
// using Euler's criterion n^((p-1)/2) = 1 (mod p).
//
// p = 2 is always accepted. A prime dividing n gives 0 and is rejected.
func IsResidue(n *big.Int, p int64) bool {
	if p == 2 {
		return true
	}
	if p < 2 {
		return false
	}

	bp := big.NewInt(p)
	exp := big.NewInt((p - 1) / 2)
	r, err := FastPow(n, exp, bp)
	if err != nil {
		return false
	}
	return r.Cmp(bigOne) == 0
}
