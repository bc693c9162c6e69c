package qsieve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/mahdiidarabi/rsa-qsieve/internal/gf2"
	"github.com/mahdiidarabi/rsa-qsieve/internal/numtheory"
)

var bigOne = big.NewInt(1)

// State is a step of the factorization state machine.
type State int

const (
	StateInit State = iota
	StateBuildingBase
	StateSieving
	StateSolving
	StateRecovering
	StateSuccess
	StateRetry
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateBuildingBase:
		return "building_base"
	case StateSieving:
		return "sieving"
	case StateSolving:
		return "solving"
	case StateRecovering:
		return "recovering"
	case StateSuccess:
		return "success"
	case StateRetry:
		return "retry"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ValidateModulus rejects moduli the sieve cannot split: N <= 1, even N,
// perfect squares and primes.
func ValidateModulus(n *big.Int) error {
	switch {
	case n == nil || n.Cmp(bigOne) <= 0:
		return fmt.Errorf("%w: N=%v must be greater than 1", ErrInvalidModulus, n)
	case !numtheory.IsOdd(n):
		return fmt.Errorf("%w: N=%s is even", ErrInvalidModulus, n)
	case numtheory.IsPerfectSquare(n):
		return fmt.Errorf("%w: N=%s is a perfect square", ErrInvalidModulus, n)
	case n.ProbablyPrime(20):
		return fmt.Errorf("%w: N=%s is prime", ErrInvalidModulus, n)
	}
	return nil
}

// attempt is the state owned by one pass of the pipeline. It is discarded
// on retry.
type attempt struct {
	bound     int64
	width     int64
	fb        *FactorBase
	relations []*Relation
	deps      []gf2.Dependency
}

// Factorize splits the odd composite N with the Quadratic Sieve.
//
// Each attempt builds a factor base, sieves for |FactorBase| + margin smooth
// relations, solves for GF(2) dependencies and tries them in order. When an
// attempt runs out of interval, finds no dependency or only trivial ones, the
// bound and interval grow by cfg.BoundGrowthFactor and everything is rebuilt.
// ctx is consulted between attempts only.
//
// Returns:
//   - the factor pair with the parameters of the successful attempt
//   - ErrInvalidModulus or ErrDegenerateFactorBase (fatal)
//   - *RetriesExhaustedError once cfg.MaxRetries retries have failed
func Factorize(ctx context.Context, n *big.Int, cfg Config) (*Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateModulus(n); err != nil {
		return nil, err
	}
	n = new(big.Int).Set(n)
	log := cfg.logger().With("n", n.String())

	bound := cfg.InitialBound
	if bound == 0 {
		bound = HeuristicBound(n, cfg.BoundScale)
	}
	width := cfg.IntervalWidth
	if width == 0 {
		width = defaultWidth(bound)
	}

	var (
		cur      *attempt
		result   *Result
		lastErr  error
		attempts int
	)

	state := StateInit
	for {
		log.Debug("factorize", "state", state, "attempt", attempts, "bound", bound, "interval", width)

		switch state {
		case StateInit:
			state = StateBuildingBase

		case StateBuildingBase:
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("factorize N=%s after %d attempts: %w", n, attempts, err)
			}
			attempts++
			fb, err := BuildFactorBase(n, bound)
			if err != nil {
				return nil, err
			}
			cur = &attempt{bound: bound, width: width, fb: fb}
			state = StateSieving

		case StateSieving:
			target := cur.fb.Len() + cfg.RelationMargin
			relations, complete := CollectRelations(NewSieve(n, cur.fb, cur.width), target)
			if !complete {
				lastErr = fmt.Errorf("%w: %d of %d within interval %d", ErrInsufficientRelations, len(relations), target, cur.width)
				state = StateRetry
				continue
			}
			cur.relations = relations
			state = StateSolving

		case StateSolving:
			m := gf2.NewMatrix(cur.fb.Len())
			for _, rel := range cur.relations {
				if err := m.AppendRow(rel.Vector); err != nil {
					return nil, err
				}
			}
			cur.deps = gf2.Solve(m)
			if len(cur.deps) == 0 {
				lastErr = ErrNoDependencies
				state = StateRetry
				continue
			}
			state = StateRecovering

		case StateRecovering:
			pair, dep, err := recoverFromDependencies(n, cur.fb, cur.relations, cur.deps)
			if errors.Is(err, ErrNoNontrivialFactor) {
				lastErr = err
				state = StateRetry
				continue
			}
			if err != nil {
				return nil, err
			}
			result = &Result{
				N:              n,
				Factors:        pair,
				Dependency:     dep,
				Attempts:       attempts,
				Bound:          cur.bound,
				Interval:       cur.width,
				FactorBaseSize: cur.fb.Len(),
				Relations:      len(cur.relations),
			}
			state = StateSuccess

		case StateSuccess:
			result.Elapsed = time.Since(start)
			log.Debug("factorized", "p", result.Factors.P, "q", result.Factors.Q, "attempts", attempts, "elapsed", result.Elapsed)
			return result, nil

		case StateRetry:
			log.Debug("attempt failed", "attempt", attempts, "err", lastErr)
			if attempts > cfg.MaxRetries {
				state = StateFailed
				continue
			}
			bound = grow(bound, cfg.BoundGrowthFactor)
			width = grow(width, cfg.BoundGrowthFactor)
			cur = nil
			state = StateBuildingBase

		case StateFailed:
			return nil, &RetriesExhaustedError{
				Attempts: attempts,
				Bound:    bound,
				Interval: width,
				Last:     lastErr,
			}
		}
	}
}

func defaultWidth(bound int64) int64 {
	if w := 2 * bound; w > MinInterval {
		return w
	}
	return MinInterval
}

func grow(v int64, factor float64) int64 {
	next := int64(math.Ceil(float64(v) * factor))
	if next <= v {
		next = v + 1
	}
	return next
}
