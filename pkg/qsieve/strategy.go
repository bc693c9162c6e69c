package qsieve

import (
	"context"
	"math/big"
)

// Factorizer defines the interface for factoring strategies.
// Implement this interface to plug a different algorithm into the Client.
type Factorizer interface {
	// Factorize splits the modulus n into two nontrivial factors.
	// The context can be used for cancellation.
	Factorize(ctx context.Context, n *big.Int) (*Result, error)

	// Name returns a human-readable name for this strategy.
	Name() string
}

// QuadraticSieve is the default Factorizer.
type QuadraticSieve struct {
	Config Config
}

// NewQuadraticSieve creates a sieve with DefaultConfig.
func NewQuadraticSieve() *QuadraticSieve {
	return &QuadraticSieve{Config: DefaultConfig()}
}

// WithConfig sets the configuration for the sieve.
func (s *QuadraticSieve) WithConfig(config Config) *QuadraticSieve {
	s.Config = config
	return s
}

// Name returns the name of this strategy.
func (s *QuadraticSieve) Name() string {
	return "QuadraticSieve"
}

// Factorize implements the Factorizer interface.
func (s *QuadraticSieve) Factorize(ctx context.Context, n *big.Int) (*Result, error) {
	return Factorize(ctx, n, s.Config)
}
