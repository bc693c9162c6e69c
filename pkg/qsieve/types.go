package qsieve

import (
	"fmt"
	"math/big"
	"time"

	"github.com/mahdiidarabi/rsa-qsieve/internal/gf2"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

// FactorPair is a nontrivial split N = P*Q with P <= Q.
type FactorPair struct {
	P *big.Int
	Q *big.Int
}

func newFactorPair(a, b *big.Int) FactorPair {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	return FactorPair{P: a, Q: b}
}

func (fp FactorPair) String() string {
	return fmt.Sprintf("%s * %s", fp.P, fp.Q)
}

// Relation is a smooth value q(x) = x^2 - N with its factorization over the
// factor base.
type Relation struct {
	X         *big.Int   // offset, always positive
	Q         *big.Int   // X^2 - N, signed
	Exponents []int      // multiplicity of each factor base entry; index 0 is the sign
	Vector    gf2.Vector // exponent parities
}

// Result describes a successful factorization.
type Result struct {
	N              *big.Int
	Factors        FactorPair
	Dependency     gf2.Dependency // relation rows combined into the congruence
	Attempts       int            // attempts made, including the successful one
	Bound          int64          // smoothness bound of the successful attempt
	Interval       int64          // sieve half-width of the successful attempt
	FactorBaseSize int            // factor base entries, sign included
	Relations      int            // smooth relations collected
	Elapsed        time.Duration
}

// BreakResult is what the Client returns for one key.
type BreakResult struct {
	Key          *rsakey.KeyPair      // key under attack; only N and E are used for the attack
	Factors      FactorPair           // recovered primes
	D            *big.Int             // private exponent rebuilt from the recovered primes
	Verification *rsakey.Verification // nil when no known primes were available
	Verified     bool                 // whether the recovered key matched the known key
	Result       *Result
}
