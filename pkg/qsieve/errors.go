package qsieve

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModulus: N <= 1, N even, N a perfect square or N prime.
	// Fatal, nothing is sieved.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrDegenerateFactorBase: no prime below the bound has N as a residue.
	// Fatal.
	ErrDegenerateFactorBase = errors.New("degenerate factor base")

	// ErrInsufficientRelations: the sieve interval ran out before enough
	// smooth relations were found. Absorbed by the retry loop.
	ErrInsufficientRelations = errors.New("insufficient smooth relations")

	// ErrNoDependencies: elimination found no null-space vector. Absorbed by
	// the retry loop.
	ErrNoDependencies = errors.New("no dependencies found")

	// ErrNoNontrivialFactor: every dependency gave X = +/-Y (mod N). Absorbed
	// by the retry loop.
	ErrNoNontrivialFactor = errors.New("no nontrivial factor")

	// ErrDegenerateDependency is returned by RecoverFactor when a single
	// dependency gives X = +/-Y (mod N).
	ErrDegenerateDependency = errors.New("degenerate dependency")

	// ErrBrokenCongruence means a dependency did not produce X^2 = Y^2 (mod N).
	// It can only come from a bug in relation collection or elimination.
	ErrBrokenCongruence = errors.New("dependency does not yield a congruence of squares")

	// ErrRetriesExhausted is wrapped by RetriesExhaustedError.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// RetriesExhaustedError carries the parameters of the last attempt.
type RetriesExhaustedError struct {
	Attempts int
	Bound    int64
	Interval int64
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts (bound %d, interval %d): %v",
		ErrRetriesExhausted, e.Attempts, e.Bound, e.Interval, e.Last)
}

// Unwrap exposes both ErrRetriesExhausted and the last recoverable error.
func (e *RetriesExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Last}
}
