// Package report renders benchmark results as a Markdown report and an
// HTML page of charts.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mahdiidarabi/rsa-qsieve/internal/bench"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

// Data is everything a report is rendered from.
type Data struct {
	Message     int64
	Repetitions int
	RSA         []bench.RSATiming
	Factor      []bench.FactorTiming
}

// Fit fits the exponential model to the successful factorizations.
func (d Data) Fit() (ExpFit, error) {
	var bits []int
	var secs []float64
	for _, ft := range d.Factor {
		if !ft.OK() {
			continue
		}
		bits = append(bits, ft.Bits)
		secs = append(secs, ft.Elapsed.Seconds())
	}
	return FitExponential(bits, secs)
}

// WriteMarkdown writes the full report to w.
func WriteMarkdown(w io.Writer, d Data) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
	}

	p("# RSA Key Derivation and Quadratic Sieve Report\n\n")

	p("## Secret Keys\n\n")
	p("Each private exponent is d = e^-1 mod (p-1)(q-1).\n\n")
	p("| Key | Fingerprint | p | q | N | e | d |\n")
	p("|-----|-------------|---|---|---|---|---|\n")
	for _, t := range d.RSA {
		k := t.Key
		p("| %s | `%s` | %s | %s | %s | %s | %s |\n", k.Name, k.Fingerprint(), k.P, k.Q, k.N, k.E, t.D)
	}
	p("\n")

	p("## Encryption and Decryption\n\n")
	p("Message %d, %d repetitions per key, average time per operation.\n\n", d.Message, d.Repetitions)
	p("| Key | N (bits) | Ciphertext | Encrypt (us) | Decrypt (us) |\n")
	p("|-----|----------|------------|--------------|--------------|\n")
	for _, t := range d.RSA {
		p("| %s | %d | %s | %.4f | %.4f |\n", t.Key.Name, t.Bits, t.Ciphertext,
			float64(t.Encrypt.Nanoseconds())/1e3, float64(t.Decrypt.Nanoseconds())/1e3)
	}
	p("\n")

	p("## Factorization\n\n")
	p("| Key | N | Recovered p | Recovered q | Attempts | Bound | Interval | Factor base | Time (s) |\n")
	p("|-----|---|-------------|-------------|----------|-------|----------|-------------|----------|\n")
	for _, ft := range d.Factor {
		if ft.Result == nil {
			p("| %s | %s | - | - | - | - | - | - | failed |\n", ft.Key.Name, ft.Key.N)
			continue
		}
		r := ft.Result
		p("| %s | %s | %s | %s | %d | %d | %d | %d | %.4f |\n", ft.Key.Name, ft.Key.N,
			r.Factors.P, r.Factors.Q, r.Attempts, r.Bound, r.Interval, r.FactorBaseSize, ft.Elapsed.Seconds())
	}
	p("\n")

	p("### Verification\n\n")
	for _, ft := range d.Factor {
		switch {
		case ft.OK():
			v := ft.Verification
			p("- **%s**: %s = N [OK]\n", ft.Key.Name, ft.Result.Factors)
			p("  - expected d = %s\n", v.ExpectedD)
			p("  - recovered d = %s\n", v.RecoveredD)
			p("  - round trip of %d [OK]\n", rsakey.VerificationMessage)
		default:
			p("- **%s**: FAILED: %v\n", ft.Key.Name, ft.Err)
		}
	}
	p("\n")

	p("## Extrapolation to %d-bit RSA\n\n", TargetBits)
	fit, err := d.Fit()
	if err != nil {
		p("No extrapolation: %v\n", err)
	} else {
		p("Least-squares fit over the factorization times: `%s`\n\n", fit)
		p("- **Seconds**: %.2e\n", fit.Seconds(TargetBits))
		p("- **Years**: %.2e\n", fit.Years(TargetBits))
		p("\nA basic Quadratic Sieve grows too fast to threaten %d-bit moduli.\n", TargetBits)
	}

	return bw.Flush()
}
