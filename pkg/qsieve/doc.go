// Package qsieve factors small RSA moduli with the Quadratic Sieve and
// rebuilds the private key from the recovered primes.
//
// The pipeline for one attempt is: build a factor base of primes p <= B for
// which N is a quadratic residue, scan x = floor(sqrt(N)) + k for values
// q(x) = x^2 - N that factor completely over it, find subsets whose exponent
// vectors sum to zero over GF(2), and turn each subset into X^2 = Y^2 (mod N).
// gcd(X - Y, N) then splits N unless X = +/-Y. Attempts that fail grow B and
// the interval and start over.
//
// WARNING: This package is for teaching and testing. It is meant for
// moduli of up to ~40 bits and has no side-channel resistance.
//
// Basic Usage:
//
//	result, err := qsieve.Factorize(ctx, big.NewInt(643020317), qsieve.DefaultConfig())
//	// result.Factors.P = 25117, result.Factors.Q = 25601
//
// Breaking keys and checking them against the known primes:
//
//	client := qsieve.NewClient()
//	results, err := client.BreakKeys(ctx, "fixtures/keys.json")
//	// Or in memory:
//	// results, err := client.BreakKeySet(ctx, rsakey.SampleKeys())
//
// Customizing the sieve:
//
//	sieve := qsieve.NewQuadraticSieve().WithConfig(
//		qsieve.DefaultConfig().
//			WithInitialBound(200).
//			WithMaxRetries(4).
//			WithLogger(slog.Default()),
//	)
//	client = qsieve.NewClient().WithFactorizer(sieve)
package qsieve
