package qsieve

import (
	"math/big"

	"github.com/mahdiidarabi/rsa-qsieve/internal/gf2"
)

// Sieve walks the offsets x = floor(sqrt(N)) + k for k = 0, +1, -1, +2, -2, ...
// while |k| <= width and yields the x whose q(x) = x^2 - N is smooth over the
// factor base. Offsets with x <= 0 or q(x) = 0 are skipped.
type Sieve struct {
	n      *big.Int
	fb     *FactorBase
	root   *big.Int
	width  int64
	step   int64 // next index into the k sequence
	primes []*big.Int

	x, q, abs, quo, rem *big.Int
}

// NewSieve prepares a sieve over [sqrt(N) - width, sqrt(N) + width].
func NewSieve(n *big.Int, fb *FactorBase, width int64) *Sieve {
	primes := make([]*big.Int, fb.Len())
	for i, p := range fb.Primes {
		primes[i] = big.NewInt(p)
	}

	return &Sieve{
		n:      n,
		fb:     fb,
		root:   new(big.Int).Sqrt(n),
		width:  width,
		primes: primes,
		x:      new(big.Int),
		q:      new(big.Int),
		abs:    new(big.Int),
		quo:    new(big.Int),
		rem:    new(big.Int),
	}
}

// offset maps the step index to k: 0, 1, -1, 2, -2, ...
func offset(step int64) int64 {
	if step%2 == 1 {
		return (step + 1) / 2
	}
	return -step / 2
}

// Exhausted reports whether every offset of the interval has been tried.
func (s *Sieve) Exhausted() bool {
	return s.step > 2*s.width
}

// Next returns the next smooth relation, or false once the interval is
// exhausted. Non-smooth candidates are dropped.
func (s *Sieve) Next() (*Relation, bool) {
	for !s.Exhausted() {
		k := offset(s.step)
		s.step++

		s.x.SetInt64(k)
		s.x.Add(s.x, s.root)
		if s.x.Sign() <= 0 {
			continue
		}

		s.q.Mul(s.x, s.x)
		s.q.Sub(s.q, s.n)
		if s.q.Sign() == 0 {
			continue
		}

		exponents, ok := s.trialDivide()
		if !ok {
			continue
		}

		vec := gf2.NewVector(s.fb.Len())
		for i, e := range exponents {
			if e%2 == 1 {
				vec.Set(i)
			}
		}
		return &Relation{
			X:         new(big.Int).Set(s.x),
			Q:         new(big.Int).Set(s.q),
			Exponents: exponents,
			Vector:    vec,
		}, true
	}
	return nil, false
}

// trialDivide factors |q| over the factor base in ascending prime order.
func (s *Sieve) trialDivide() ([]int, bool) {
	exponents := make([]int, s.fb.Len())
	if s.q.Sign() < 0 {
		exponents[0] = 1
	}

	s.abs.Abs(s.q)
	if s.abs.IsUint64() {
		return exponents, s.trialDivideWord(s.abs.Uint64(), exponents)
	}

	for i := 1; i < len(s.primes); i++ {
		for {
			s.quo.QuoRem(s.abs, s.primes[i], s.rem)
			if s.rem.Sign() != 0 {
				break
			}
			s.abs.Set(s.quo)
			exponents[i]++
		}
		if s.abs.IsUint64() {
			return exponents, s.trialDivideWordFrom(s.abs.Uint64(), exponents, i+1)
		}
	}
	return exponents, s.abs.IsUint64() && s.abs.Uint64() == 1
}

func (s *Sieve) trialDivideWord(v uint64, exponents []int) bool {
	return s.trialDivideWordFrom(v, exponents, 1)
}

func (s *Sieve) trialDivideWordFrom(v uint64, exponents []int, from int) bool {
	for i := from; i < len(s.fb.Primes) && v > 1; i++ {
		p := uint64(s.fb.Primes[i])
		for v%p == 0 {
			v /= p
			exponents[i]++
		}
	}
	return v == 1
}

// CollectRelations pulls relations from s until target have been gathered or
// the interval runs out. complete reports whether the target was reached.
func CollectRelations(s *Sieve, target int) (relations []*Relation, complete bool) {
	relations = make([]*Relation, 0, target)
	for len(relations) < target {
		rel, ok := s.Next()
		if !ok {
			return relations, false
		}
		relations = append(relations, rel)
	}
	return relations, true
}
