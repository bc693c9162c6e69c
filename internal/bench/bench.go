// Package bench measures RSA encrypt/decrypt cost and factorization time
// over a key set.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/mahdiidarabi/rsa-qsieve/internal/batch"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/qsieve"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

const (
	// DefaultMessage is the plaintext used for timing runs.
	DefaultMessage = 12345

	// DefaultRepetitions is the number of encryptions and decryptions averaged per key.
	DefaultRepetitions = 1000
)

// RSATiming holds the average encrypt/decrypt time for one key.
type RSATiming struct {
	Key        *rsakey.KeyPair
	Bits       int
	D          *big.Int
	Ciphertext *big.Int
	Encrypt    time.Duration // average per operation
	Decrypt    time.Duration // average per operation
}

// FactorTiming holds the outcome of breaking one key.
type FactorTiming struct {
	Key          *rsakey.KeyPair
	Bits         int
	Result       *qsieve.Result
	Elapsed      time.Duration
	Verification *rsakey.Verification
	Err          error
}

// OK reports whether the key was factored and verified.
func (f FactorTiming) OK() bool {
	return f.Err == nil && f.Verification != nil && f.Verification.OK()
}

// MeasureRSA encrypts and decrypts message reps times with every key and
// returns the average cost of each operation. The message is reduced mod N.
func MeasureRSA(keys []*rsakey.KeyPair, message int64, reps int) ([]RSATiming, error) {
	if reps <= 0 {
		return nil, fmt.Errorf("repetitions must be positive, got %d", reps)
	}

	timings := make([]RSATiming, 0, len(keys))
	for _, key := range keys {
		d, err := key.PrivateExponent()
		if err != nil {
			return nil, err
		}
		m := new(big.Int).Mod(big.NewInt(message), key.N)

		var c *big.Int
		start := time.Now()
		for i := 0; i < reps; i++ {
			if c, err = rsakey.Encrypt(m, key.E, key.N); err != nil {
				return nil, fmt.Errorf("key %q: %w", key.Name, err)
			}
		}
		encrypt := time.Since(start) / time.Duration(reps)

		var back *big.Int
		start = time.Now()
		for i := 0; i < reps; i++ {
			if back, err = rsakey.Decrypt(c, d, key.N); err != nil {
				return nil, fmt.Errorf("key %q: %w", key.Name, err)
			}
		}
		decrypt := time.Since(start) / time.Duration(reps)

		if back.Cmp(m) != 0 {
			return nil, fmt.Errorf("key %q: %w: %s -> %s -> %s", key.Name, rsakey.ErrRoundTrip, m, c, back)
		}

		timings = append(timings, RSATiming{
			Key:        key,
			Bits:       key.Bits(),
			D:          d,
			Ciphertext: c,
			Encrypt:    encrypt,
			Decrypt:    decrypt,
		})
	}
	return timings, nil
}

// MeasureFactorization factors every key's modulus on numWorkers workers and
// cross-validates the recovered primes against the key. Failures are
// recorded per key rather than aborting the run.
func MeasureFactorization(ctx context.Context, factorizer qsieve.Factorizer, keys []*rsakey.KeyPair, numWorkers int, logger *slog.Logger) []FactorTiming {
	jobs := make([]batch.Job, len(keys))
	for i, key := range keys {
		jobs[i] = batch.Job{Name: key.Name, N: key.N}
	}

	outcomes := batch.Run(ctx, factorizer, jobs, numWorkers, logger)

	timings := make([]FactorTiming, len(keys))
	for i, out := range outcomes {
		key := keys[i]
		ft := FactorTiming{
			Key:     key,
			Bits:    key.Bits(),
			Result:  out.Result,
			Elapsed: out.Elapsed,
			Err:     out.Err,
		}
		if out.Err == nil {
			ft.Verification, ft.Err = rsakey.CrossValidate(key, out.Result.Factors.P, out.Result.Factors.Q)
		}
		timings[i] = ft
	}
	return timings
}
