package qsieve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFactorBase(t *testing.T) {
	n := big.NewInt(643020317)
	fb, err := BuildFactorBase(n, 100)
	require.NoError(t, err)

	require.Greater(t, fb.Len(), 2)
	assert.Equal(t, int64(SignPrime), fb.Primes[0])
	assert.Equal(t, int64(2), fb.Primes[1])

	seen := map[int64]bool{}
	for i, p := range fb.Primes[1:] {
		assert.False(t, seen[p], "duplicate prime %d", p)
		seen[p] = true
		assert.LessOrEqual(t, p, int64(100))
		if i > 0 {
			assert.Greater(t, p, fb.Primes[i])
		}
		if p > 2 {
			// Euler's criterion
			ls := new(big.Int).Exp(n, big.NewInt((p-1)/2), big.NewInt(p))
			assert.Equal(t, int64(1), ls.Int64(), "N is not a residue mod %d", p)
		}
	}

	for i, p := range fb.Primes {
		assert.Equal(t, i, fb.Index(p))
	}
	assert.Equal(t, -1, fb.Index(4))
	assert.Equal(t, -1, fb.Index(1000))
}

func TestBuildFactorBase_Degenerate(t *testing.T) {
	_, err := BuildFactorBase(big.NewInt(15), 1)
	require.ErrorIs(t, err, ErrDegenerateFactorBase)
}

func TestHeuristicBound(t *testing.T) {
	assert.Equal(t, int64(MinBound), HeuristicBound(big.NewInt(15), 3))
	assert.Equal(t, int64(MinBound), HeuristicBound(big.NewInt(1), 3))

	small := HeuristicBound(big.NewInt(643020317), 3)
	large := HeuristicBound(big.NewInt(68720000989), 3)
	assert.GreaterOrEqual(t, large, small)

	huge := new(big.Int).Lsh(big.NewInt(1), 2048)
	assert.Greater(t, HeuristicBound(huge, 3), int64(MinBound))
}

func TestOffset(t *testing.T) {
	want := []int64{0, 1, -1, 2, -2, 3, -3}
	for step, k := range want {
		assert.Equal(t, k, offset(int64(step)))
	}
}

func TestSieve_RelationInvariants(t *testing.T) {
	n := big.NewInt(643020317)
	fb, err := BuildFactorBase(n, HeuristicBound(n, 3))
	require.NoError(t, err)

	relations, _ := CollectRelations(NewSieve(n, fb, 2000), 30)
	require.NotEmpty(t, relations)

	seen := map[string]bool{}
	for _, rel := range relations {
		require.Positive(t, rel.X.Sign())
		assert.False(t, seen[rel.X.String()], "duplicate x %s", rel.X)
		seen[rel.X.String()] = true

		q := new(big.Int).Mul(rel.X, rel.X)
		q.Sub(q, n)
		assert.Equal(t, 0, q.Cmp(rel.Q))
		assert.NotZero(t, rel.Q.Sign())

		// sign bit set iff q(x) < 0
		assert.Equal(t, rel.Q.Sign() < 0, rel.Vector.Bit(0))
		assert.Equal(t, rel.Q.Sign() < 0, rel.Exponents[0] == 1)

		// the exponents rebuild |q(x)| exactly
		product := big.NewInt(1)
		for i := 1; i < fb.Len(); i++ {
			pe := new(big.Int).Exp(big.NewInt(fb.Primes[i]), big.NewInt(int64(rel.Exponents[i])), nil)
			product.Mul(product, pe)
			assert.Equal(t, rel.Exponents[i]%2 == 1, rel.Vector.Bit(i))
		}
		assert.Equal(t, 0, product.Cmp(new(big.Int).Abs(rel.Q)))
	}
}

func TestSieve_ScanOrder(t *testing.T) {
	n := big.NewInt(643020317)
	fb, err := BuildFactorBase(n, HeuristicBound(n, 3))
	require.NoError(t, err)

	root := new(big.Int).Sqrt(n)
	distance := func(x *big.Int) int64 {
		return new(big.Int).Abs(new(big.Int).Sub(x, root)).Int64()
	}

	relations, _ := CollectRelations(NewSieve(n, fb, 500), 20)
	for i := 1; i < len(relations); i++ {
		assert.LessOrEqual(t, distance(relations[i-1].X), distance(relations[i].X))
	}
}

func TestSieve_Exhausted(t *testing.T) {
	n := big.NewInt(643020317)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	s := NewSieve(n, fb, 3)
	relations, complete := CollectRelations(s, 1000)
	assert.False(t, complete)
	assert.LessOrEqual(t, len(relations), 7)
	assert.True(t, s.Exhausted())

	_, ok := s.Next()
	assert.False(t, ok)
}

func TestSieve_SkipsNonPositiveOffsets(t *testing.T) {
	n := big.NewInt(15)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	relations, _ := CollectRelations(NewSieve(n, fb, 100), 1000)
	require.NotEmpty(t, relations)
	for _, rel := range relations {
		assert.Positive(t, rel.X.Sign())
	}
}

func TestTrialDivide_LargeValues(t *testing.T) {
	// q(x) beyond 64 bits takes the math/big path before dropping to words
	n := new(big.Int).Lsh(big.NewInt(1), 80)
	n.Add(n, big.NewInt(7))
	fb, err := BuildFactorBase(n, 200)
	require.NoError(t, err)

	s := NewSieve(n, fb, 0)
	smooth := new(big.Int).Lsh(big.NewInt(1), 70)
	s.q.Neg(smooth)

	exponents, ok := s.trialDivide()
	require.True(t, ok)
	assert.Equal(t, 1, exponents[0])
	assert.Equal(t, 70, exponents[fb.Index(2)])
}
