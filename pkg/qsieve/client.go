package qsieve

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

// Client provides a high-level API for breaking RSA keys: factor the modulus,
// rebuild the private exponent and check it against the known key.
type Client struct {
	factorizer Factorizer
	parser     rsakey.KeyParser
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		factorizer: NewQuadraticSieve(),
		parser:     &rsakey.JSONParser{},
	}
}

// WithFactorizer sets a custom factoring strategy.
func (c *Client) WithFactorizer(factorizer Factorizer) *Client {
	c.factorizer = factorizer
	return c
}

// WithParser sets a custom key parser.
func (c *Client) WithParser(parser rsakey.KeyParser) *Client {
	c.parser = parser
	return c
}

// Factorizer returns the strategy in use.
func (c *Client) Factorizer() Factorizer {
	return c.factorizer
}

// BreakKeys breaks every key in a key file.
//
// Args:
//   - ctx: Context for cancellation.
//   - source: Path to the key file (JSON or CSV, depending on the parser).
//
// Returns:
//   - One BreakResult per key, in file order, or the first error.
func (c *Client) BreakKeys(ctx context.Context, source string) ([]*BreakResult, error) {
	keys, err := c.parser.ParseKeys(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keys: %w", err)
	}
	return c.BreakKeySet(ctx, keys)
}

// BreakKeySet breaks already parsed keys one after the other.
func (c *Client) BreakKeySet(ctx context.Context, keys []*rsakey.KeyPair) ([]*BreakResult, error) {
	if len(keys) == 0 {
		return nil, errors.New("no keys to break")
	}

	results := make([]*BreakResult, 0, len(keys))
	for _, key := range keys {
		res, err := c.BreakKey(ctx, key)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// BreakKey factors key.N, derives d from the recovered primes and
// cross-validates the outcome against the key's own primes.
//
// Only N and E drive the attack. A verification failure is reported both in
// the result and as the returned error.
func (c *Client) BreakKey(ctx context.Context, key *rsakey.KeyPair) (*BreakResult, error) {
	res, err := c.BreakModulus(ctx, key.N, key.E)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key.Name, err)
	}
	res.Key = key

	if key.P == nil || key.Q == nil {
		return res, nil
	}

	v, err := rsakey.CrossValidate(key, res.Factors.P, res.Factors.Q)
	res.Verification = v
	res.Verified = err == nil && v.OK()
	return res, err
}

// BreakModulus factors n and derives the private exponent for e. No known
// key is available, so the result is never Verified.
func (c *Client) BreakModulus(ctx context.Context, n, e *big.Int) (*BreakResult, error) {
	result, err := c.factorizer.Factorize(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to factor N=%s with %s: %w", n, c.factorizer.Name(), err)
	}

	d, err := rsakey.PrivateExponent(result.Factors.P, result.Factors.Q, e)
	if err != nil {
		return nil, fmt.Errorf("failed to derive d for N=%s: %w", n, err)
	}

	return &BreakResult{
		Key:     &rsakey.KeyPair{N: new(big.Int).Set(n), E: new(big.Int).Set(e)},
		Factors: result.Factors,
		D:       d,
		Result:  result,
	}, nil
}
