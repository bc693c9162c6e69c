package qsieve

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	// MinBound is the smallest smoothness bound the heuristic will pick.
	MinBound = 50

	// MinInterval is the smallest default sieve half-width.
	MinInterval = 100
)

// Config holds the tunables of a factorization run.
type Config struct {
	// InitialBound is the smoothness bound of the first attempt (0 = heuristic)
	InitialBound int64

	// IntervalWidth is the sieve half-width around sqrt(N) (0 = max(MinInterval, 2*bound))
	IntervalWidth int64

	// RelationMargin is how many relations beyond the factor base size to collect
	RelationMargin int

	// MaxRetries caps the number of retries after the first attempt
	MaxRetries int

	// BoundGrowthFactor scales bound and interval on every retry
	BoundGrowthFactor float64

	// BoundScale multiplies the L(N)^(1/2) heuristic
	BoundScale float64

	// Logger receives state transitions at debug level (nil = discard)
	Logger *slog.Logger
}

// DefaultConfig returns a configuration that factors every modulus up to
// ~40 bits in a handful of attempts.
func DefaultConfig() Config {
	return Config{
		InitialBound:      0,
		IntervalWidth:     0,
		RelationMargin:    5,
		MaxRetries:        10,
		BoundGrowthFactor: 2,
		BoundScale:        3,
	}
}

// WithInitialBound sets the first smoothness bound.
func (c Config) WithInitialBound(bound int64) Config {
	c.InitialBound = bound
	return c
}

// WithIntervalWidth sets the first sieve half-width.
func (c Config) WithIntervalWidth(width int64) Config {
	c.IntervalWidth = width
	return c
}

// WithRelationMargin sets the surplus of relations over the factor base.
func (c Config) WithRelationMargin(margin int) Config {
	c.RelationMargin = margin
	return c
}

// WithMaxRetries sets the retry budget.
func (c Config) WithMaxRetries(retries int) Config {
	c.MaxRetries = retries
	return c
}

// WithBoundGrowthFactor sets the growth applied on each retry.
func (c Config) WithBoundGrowthFactor(factor float64) Config {
	c.BoundGrowthFactor = factor
	return c
}

// WithLogger sets the logger.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	return c
}

// Validate checks the configuration for values the orchestrator cannot use.
func (c Config) Validate() error {
	switch {
	case c.InitialBound < 0:
		return fmt.Errorf("%w: negative initial bound %d", ErrInvalidConfig, c.InitialBound)
	case c.IntervalWidth < 0:
		return fmt.Errorf("%w: negative interval width %d", ErrInvalidConfig, c.IntervalWidth)
	case c.RelationMargin < 1:
		return fmt.Errorf("%w: relation margin must be at least 1, got %d", ErrInvalidConfig, c.RelationMargin)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: negative retry count %d", ErrInvalidConfig, c.MaxRetries)
	case c.BoundGrowthFactor <= 1:
		return fmt.Errorf("%w: growth factor must exceed 1, got %g", ErrInvalidConfig, c.BoundGrowthFactor)
	case c.BoundScale <= 0:
		return fmt.Errorf("%w: bound scale must be positive, got %g", ErrInvalidConfig, c.BoundScale)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
