package report

import (
	"errors"
	"fmt"
	"math"
)

// TargetBits is the modulus size the factorization time is extrapolated to.
const TargetBits = 2048

const secondsPerYear = 365.25 * 24 * 3600

var ErrFit = errors.New("cannot fit exponential model")

// ExpFit is the least-squares line through (bits, ln(seconds)):
// ln(t) = Slope*bits + Intercept.
type ExpFit struct {
	Slope     float64
	Intercept float64
}

// FitExponential fits ln(seconds) = a*bits + b by ordinary least squares.
// It needs at least two distinct bit sizes and strictly positive times.
func FitExponential(bits []int, seconds []float64) (ExpFit, error) {
	if len(bits) != len(seconds) {
		return ExpFit{}, fmt.Errorf("%w: %d sizes but %d times", ErrFit, len(bits), len(seconds))
	}
	if len(bits) < 2 {
		return ExpFit{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrFit, len(bits))
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, b := range bits {
		if seconds[i] <= 0 {
			return ExpFit{}, fmt.Errorf("%w: non-positive time %g at %d bits", ErrFit, seconds[i], b)
		}
		x := float64(b)
		y := math.Log(seconds[i])
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	n := float64(len(bits))
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return ExpFit{}, fmt.Errorf("%w: all points share the same bit size", ErrFit)
	}

	a := (n*sumXY - sumX*sumY) / denom
	return ExpFit{Slope: a, Intercept: (sumY - a*sumX) / n}, nil
}

// LogSeconds returns the fitted ln(t) at bits.
func (f ExpFit) LogSeconds(bits int) float64 {
	return f.Slope*float64(bits) + f.Intercept
}

// Seconds returns the fitted time at bits. It overflows to +Inf for large
// extrapolations.
func (f ExpFit) Seconds(bits int) float64 {
	return math.Exp(f.LogSeconds(bits))
}

// Years converts Seconds(bits) to Julian years.
func (f ExpFit) Years(bits int) float64 {
	return f.Seconds(bits) / secondsPerYear
}

func (f ExpFit) String() string {
	return fmt.Sprintf("ln(time) = %.6f * bits + %.6f", f.Slope, f.Intercept)
}
