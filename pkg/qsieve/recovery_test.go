package qsieve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/rsa-qsieve/internal/gf2"
)

func squareRelation(t *testing.T, fb *FactorBase, x int64) *Relation {
	t.Helper()
	q := new(big.Int).Mul(big.NewInt(x), big.NewInt(x))
	q.Sub(q, fb.N)
	return &Relation{
		X:         big.NewInt(x),
		Q:         q,
		Exponents: make([]int, fb.Len()),
		Vector:    gf2.NewVector(fb.Len()),
	}
}

func TestRecoverFactor_PerfectSquareRelation(t *testing.T) {
	// 4^2 - 15 = 1, so the single relation is its own dependency
	n := big.NewInt(15)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	relations := []*Relation{squareRelation(t, fb, 4)}
	pair, err := RecoverFactor(n, fb, relations, gf2.Dependency{0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pair.P.Int64())
	assert.Equal(t, int64(5), pair.Q.Int64())
}

func TestRecoverFactor_Degenerate(t *testing.T) {
	n := big.NewInt(15)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	// X = 1 and Y = 1
	relations := []*Relation{squareRelation(t, fb, 1)}
	_, err = RecoverFactor(n, fb, relations, gf2.Dependency{0})
	require.ErrorIs(t, err, ErrDegenerateDependency)

	_, err = RecoverFactor(n, fb, relations, gf2.Dependency{})
	require.ErrorIs(t, err, ErrDegenerateDependency)
}

func TestRecoverFactor_BrokenCongruence(t *testing.T) {
	n := big.NewInt(15)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	rel := squareRelation(t, fb, 4)
	rel.Exponents[1] = 1
	_, err = RecoverFactor(n, fb, []*Relation{rel}, gf2.Dependency{0})
	require.ErrorIs(t, err, ErrBrokenCongruence)

	_, err = RecoverFactor(n, fb, []*Relation{rel}, gf2.Dependency{3})
	require.ErrorIs(t, err, ErrBrokenCongruence)
}

func TestRecoverFactor_SolvedDependencies(t *testing.T) {
	n := big.NewInt(643020317)
	fb, err := BuildFactorBase(n, HeuristicBound(n, 3))
	require.NoError(t, err)

	relations, complete := CollectRelations(NewSieve(n, fb, 20000), fb.Len()+5)
	require.True(t, complete)

	m := gf2.NewMatrix(fb.Len())
	for _, rel := range relations {
		require.NoError(t, m.AppendRow(rel.Vector))
	}
	deps := gf2.Solve(m)
	require.NotEmpty(t, deps)

	found := 0
	for _, dep := range deps {
		pair, err := RecoverFactor(n, fb, relations, dep)
		if err != nil {
			// every dependency is a valid congruence; only trivial ones may fail
			require.ErrorIs(t, err, ErrDegenerateDependency)
			continue
		}
		found++
		assert.Equal(t, 0, new(big.Int).Mul(pair.P, pair.Q).Cmp(n))
		assert.Equal(t, int64(25117), pair.P.Int64())
	}
	assert.Positive(t, found)

	pair, dep, err := recoverFromDependencies(n, fb, relations, deps)
	require.NoError(t, err)
	assert.NotEmpty(t, dep)
	assert.Equal(t, int64(25601), pair.Q.Int64())
}

func TestRecoverFromDependencies_AllTrivial(t *testing.T) {
	n := big.NewInt(15)
	fb, err := BuildFactorBase(n, 50)
	require.NoError(t, err)

	relations := []*Relation{squareRelation(t, fb, 1)}
	_, _, err = recoverFromDependencies(n, fb, relations, []gf2.Dependency{{0}, {0}})
	require.ErrorIs(t, err, ErrNoNontrivialFactor)
}
