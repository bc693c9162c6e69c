package qsieve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/rsa-qsieve/internal/gf2"
	"github.com/mahdiidarabi/rsa-qsieve/internal/numtheory"
)

// RecoverFactor turns a dependency into X^2 = Y^2 (mod N) and tries to split N.
//
// X is the product of the offsets and Y the square root of the product of
// the q(x) values, read directly off the summed exponents. The result is the
// first of gcd(X-Y, N), gcd(X+Y, N) strictly between 1 and N.
//
// Returns:
//   - ErrDegenerateDependency when X = +/-Y (mod N)
//   - ErrBrokenCongruence when the dependency is not a perfect square
func RecoverFactor(n *big.Int, fb *FactorBase, relations []*Relation, dep gf2.Dependency) (FactorPair, error) {
	if len(dep) == 0 {
		return FactorPair{}, fmt.Errorf("%w: empty dependency", ErrDegenerateDependency)
	}

	x := big.NewInt(1)
	totals := make([]int, fb.Len())
	for _, row := range dep {
		if row < 0 || row >= len(relations) {
			return FactorPair{}, fmt.Errorf("%w: row %d out of range", ErrBrokenCongruence, row)
		}
		rel := relations[row]
		x.Mul(x, rel.X)
		x.Mod(x, n)
		for i, e := range rel.Exponents {
			totals[i] += e
		}
	}

	y := big.NewInt(1)
	for i, e := range totals {
		if e%2 != 0 {
			return FactorPair{}, fmt.Errorf("%w: odd exponent %d for %d", ErrBrokenCongruence, e, fb.Primes[i])
		}
		if i == 0 || e == 0 {
			continue
		}
		term, err := numtheory.FastPow(big.NewInt(fb.Primes[i]), big.NewInt(int64(e/2)), n)
		if err != nil {
			return FactorPair{}, err
		}
		y.Mul(y, term)
		y.Mod(y, n)
	}

	x2 := new(big.Int).Mul(x, x)
	x2.Mod(x2, n)
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, n)
	if x2.Cmp(y2) != 0 {
		return FactorPair{}, fmt.Errorf("%w: X^2=%s, Y^2=%s", ErrBrokenCongruence, x2, y2)
	}

	negY := new(big.Int).Sub(n, y)
	negY.Mod(negY, n)
	if x.Cmp(y) == 0 || x.Cmp(negY) == 0 {
		return FactorPair{}, ErrDegenerateDependency
	}

	diff := new(big.Int).Sub(x, y)
	diff.Mod(diff, n)
	sum := new(big.Int).Add(x, y)
	sum.Mod(sum, n)
	for _, v := range []*big.Int{diff, sum} {
		g := new(big.Int).GCD(nil, nil, v, n)
		if g.Cmp(bigOne) > 0 && g.Cmp(n) < 0 {
			return newFactorPair(g, new(big.Int).Quo(n, g)), nil
		}
	}

	// Unreachable for X != +/-Y, kept so a bad N cannot return a bogus pair.
	return FactorPair{}, ErrDegenerateDependency
}

// recoverFromDependencies tries the dependencies in order and returns the
// first split found together with the dependency that produced it.
func recoverFromDependencies(n *big.Int, fb *FactorBase, relations []*Relation, deps []gf2.Dependency) (FactorPair, gf2.Dependency, error) {
	for _, dep := range deps {
		pair, err := RecoverFactor(n, fb, relations, dep)
		if err == nil {
			return pair, dep, nil
		}
		if errors.Is(err, ErrDegenerateDependency) {
			continue
		}
		return FactorPair{}, nil, err
	}
	return FactorPair{}, nil, fmt.Errorf("%w: %d dependencies tried", ErrNoNontrivialFactor, len(deps))
}
