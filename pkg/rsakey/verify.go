package rsakey

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

var (
	ErrFactorMismatch   = errors.New("recovered factors do not match the key")
	ErrNotPrime         = errors.New("recovered factor is not prime")
	ErrExponentMismatch = errors.New("recovered private exponent differs from the key's")
	ErrRoundTrip        = errors.New("encrypt/decrypt round trip failed")
)

// VerificationMessage is encrypted and decrypted during cross-validation.
const VerificationMessage = 12345

// Verification records every check CrossValidate ran.
type Verification struct {
	ProductMatches  bool     // p*q == N
	FactorsPrime    bool     // both recovered factors are prime
	FactorsMatch    bool     // {p, q} equals the key's primes
	ExponentMatches bool     // d from recovered primes equals d from the key's primes
	RoundTrip       bool     // Decrypt(Encrypt(m)) == m with the recovered d
	ExpectedD       *big.Int // d derived from the key's primes
	RecoveredD      *big.Int // d derived from the recovered primes
}

// OK reports whether every check passed.
func (v *Verification) OK() bool {
	return v.ProductMatches && v.FactorsPrime && v.FactorsMatch && v.ExponentMatches && v.RoundTrip
}

// IsPrime reports whether n is prime. Word-size values go through lattigo's
// Miller-Rabin, larger ones through math/big.
func IsPrime(n *big.Int) bool {
	if n.Cmp(big.NewInt(2)) < 0 {
		return false
	}
	if n.BitLen() <= 62 {
		return ring.IsPrime(n.Uint64())
	}
	return n.ProbablyPrime(20)
}

// CrossValidate checks the factors (p, q) recovered for key against the
// key's own primes and private exponent.
//
// The returned Verification is always populated as far as the checks got;
// the error names the first check that failed.
func CrossValidate(key *KeyPair, p, q *big.Int) (*Verification, error) {
	v := &Verification{}

	product := new(big.Int).Mul(p, q)
	v.ProductMatches = product.Cmp(key.N) == 0
	v.FactorsPrime = IsPrime(p) && IsPrime(q)
	v.FactorsMatch = (p.Cmp(key.P) == 0 && q.Cmp(key.Q) == 0) ||
		(p.Cmp(key.Q) == 0 && q.Cmp(key.P) == 0)

	if !v.ProductMatches {
		return v, fmt.Errorf("key %q: %w: %s * %s = %s, N = %s", key.Name, ErrFactorMismatch, p, q, product, key.N)
	}
	if !v.FactorsPrime {
		return v, fmt.Errorf("key %q: %w: %s, %s", key.Name, ErrNotPrime, p, q)
	}
	if !v.FactorsMatch {
		return v, fmt.Errorf("key %q: %w: got {%s, %s}, want {%s, %s}", key.Name, ErrFactorMismatch, p, q, key.P, key.Q)
	}

	expected, err := key.PrivateExponent()
	if err != nil {
		return v, err
	}
	recovered, err := PrivateExponent(p, q, key.E)
	if err != nil {
		return v, fmt.Errorf("key %q: %w", key.Name, err)
	}
	v.ExpectedD = expected
	v.RecoveredD = recovered
	v.ExponentMatches = expected.Cmp(recovered) == 0
	if !v.ExponentMatches {
		return v, fmt.Errorf("key %q: %w: %s != %s", key.Name, ErrExponentMismatch, recovered, expected)
	}

	msg := new(big.Int).Mod(big.NewInt(VerificationMessage), key.N)
	c, err := Encrypt(msg, key.E, key.N)
	if err != nil {
		return v, fmt.Errorf("key %q: %w", key.Name, err)
	}
	back, err := Decrypt(c, recovered, key.N)
	if err != nil {
		return v, fmt.Errorf("key %q: %w", key.Name, err)
	}
	v.RoundTrip = back.Cmp(msg) == 0
	if !v.RoundTrip {
		return v, fmt.Errorf("key %q: %w: %s -> %s -> %s", key.Name, ErrRoundTrip, msg, c, back)
	}
	return v, nil
}
