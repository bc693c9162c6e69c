package qsieve

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/mahdiidarabi/rsa-qsieve/internal/numtheory"
)

// SignPrime is the pseudo-prime stored at index 0 of every factor base.
const SignPrime = -1

// FactorBase is the ordered set of primes a relation may be built from.
// Primes[0] is SignPrime; the remaining entries ascend. It must not be
// modified after BuildFactorBase returns it.
type FactorBase struct {
	N      *big.Int
	Bound  int64
	Primes []int64
}

// BuildFactorBase keeps every prime p <= bound for which N is a quadratic
// residue (2 always qualifies) and prepends the sign entry.
func BuildFactorBase(n *big.Int, bound int64) (*FactorBase, error) {
	candidates := numtheory.PrimesUpTo(bound)

	primes := make([]int64, 1, len(candidates)/2+2)
	primes[0] = SignPrime
	for _, p := range candidates {
		if numtheory.IsResidue(n, p) {
			primes = append(primes, p)
		}
	}

	if len(primes) == 1 {
		return nil, fmt.Errorf("%w: no residue prime up to %d for N=%s", ErrDegenerateFactorBase, bound, n)
	}

	return &FactorBase{
		N:      new(big.Int).Set(n),
		Bound:  bound,
		Primes: primes,
	}, nil
}

// Len returns the number of entries, sign included. This is also the column
// count of the relation matrix.
func (fb *FactorBase) Len() int {
	return len(fb.Primes)
}

// Index returns the position of p, or -1.
func (fb *FactorBase) Index(p int64) int {
	if p == SignPrime {
		return 0
	}
	rest := fb.Primes[1:]
	i := sort.Search(len(rest), func(i int) bool { return rest[i] >= p })
	if i < len(rest) && rest[i] == p {
		return i + 1
	}
	return -1
}

// HeuristicBound picks a smoothness bound of scale * exp(sqrt(ln N * ln ln N) / 2),
// never below MinBound.
func HeuristicBound(n *big.Int, scale float64) int64 {
	lnN := naturalLog(n)
	if lnN <= 1 {
		return MinBound
	}
	lnLnN := math.Log(lnN)

	b := math.Ceil(scale * math.Exp(0.5*math.Sqrt(lnN*lnLnN)))
	if b < MinBound || math.IsNaN(b) {
		return MinBound
	}
	if b > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(b)
}

func naturalLog(n *big.Int) float64 {
	if n.Sign() <= 0 {
		return 0
	}
	// Shift out all but the top 64 bits so the float conversion never overflows.
	shift := 0
	if n.BitLen() > 64 {
		shift = n.BitLen() - 64
	}
	top := new(big.Int).Rsh(n, uint(shift))
	f, _ := new(big.Float).SetInt(top).Float64()
	return math.Log(f) + float64(shift)*math.Ln2
}
