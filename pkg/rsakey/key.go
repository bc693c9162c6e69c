// Package rsakey derives RSA private exponents from known primes, runs the
// textbook encrypt/decrypt primitives and cross-checks factors recovered by
// an attack against the key they came from.
package rsakey

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/mahdiidarabi/rsa-qsieve/internal/numtheory"
)

// DefaultExponent is the public exponent used when a key file omits e.
const DefaultExponent = 65537

// ErrMessageRange is returned when a message or ciphertext is not in [0, N).
var ErrMessageRange = errors.New("value out of range [0, N)")

// KeyPair is an RSA key described by its primes.
type KeyPair struct {
	Name string
	P    *big.Int
	Q    *big.Int
	N    *big.Int
	E    *big.Int
}

// NewKeyPair builds a key from p, q and e and computes N = p*q.
func NewKeyPair(name string, p, q, e *big.Int) (*KeyPair, error) {
	if p == nil || q == nil || e == nil {
		return nil, fmt.Errorf("key %q: p, q and e are required", name)
	}
	if p.Cmp(big.NewInt(2)) < 0 || q.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("key %q: primes must be at least 2", name)
	}
	return &KeyPair{
		Name: name,
		P:    new(big.Int).Set(p),
		Q:    new(big.Int).Set(q),
		N:    new(big.Int).Mul(p, q),
		E:    new(big.Int).Set(e),
	}, nil
}

// Bits returns the bit length of N.
func (k *KeyPair) Bits() int {
	return k.N.BitLen()
}

// Phi returns (p-1)(q-1).
func (k *KeyPair) Phi() *big.Int {
	return phi(k.P, k.Q)
}

// PrivateExponent returns d = e^-1 mod (p-1)(q-1) for this key.
func (k *KeyPair) PrivateExponent() (*big.Int, error) {
	d, err := PrivateExponent(k.P, k.Q, k.E)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", k.Name, err)
	}
	return d, nil
}

// Fingerprint identifies the public half of the key.
func (k *KeyPair) Fingerprint() string {
	return Fingerprint(k.N, k.E)
}

func phi(p, q *big.Int) *big.Int {
	pm := new(big.Int).Sub(p, big.NewInt(1))
	qm := new(big.Int).Sub(q, big.NewInt(1))
	return pm.Mul(pm, qm)
}

// PrivateExponent computes d = e^-1 mod (p-1)(q-1). The error wraps
// numtheory.ErrNoInverse when e is not coprime to phi.
func PrivateExponent(p, q, e *big.Int) (*big.Int, error) {
	return numtheory.ModInverse(e, phi(p, q))
}

// Encrypt returns m^e mod n.
func Encrypt(m, e, n *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(n) >= 0 {
		return nil, fmt.Errorf("encrypt: %w: %s", ErrMessageRange, m)
	}
	return numtheory.FastPow(m, e, n)
}

// Decrypt returns c^d mod n.
func Decrypt(c, d, n *big.Int) (*big.Int, error) {
	if c.Sign() < 0 || c.Cmp(n) >= 0 {
		return nil, fmt.Errorf("decrypt: %w: %s", ErrMessageRange, c)
	}
	return numtheory.FastPow(c, d, n)
}

// Fingerprint returns the first 8 bytes of SHAKE256(len(N) || N || len(e) || e),
// hex encoded.
func Fingerprint(n, e *big.Int) string {
	h := sha3.NewShake256()
	for _, v := range []*big.Int{n, e} {
		b := v.Bytes()
		h.Write([]byte{byte(len(b) >> 8), byte(len(b))})
		h.Write(b)
	}
	out := make([]byte, 8)
	h.Read(out)
	return hex.EncodeToString(out)
}

// SampleKeys returns the three reference keys the attack is demonstrated on.
func SampleKeys() []*KeyPair {
	e := big.NewInt(DefaultExponent)
	raw := []struct {
		name string
		p, q int64
	}{
		{"key1", 25117, 25601},
		{"key2", 131071, 131129},
		{"key3", 262139, 262151},
	}

	keys := make([]*KeyPair, 0, len(raw))
	for _, r := range raw {
		k, _ := NewKeyPair(r.name, big.NewInt(r.p), big.NewInt(r.q), e)
		keys = append(keys, k)
	}
	return keys
}
