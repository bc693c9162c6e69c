package rsakey

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossValidate_Success(t *testing.T) {
	for _, key := range SampleKeys() {
		// swapped order must be accepted too
		v, err := CrossValidate(key, key.Q, key.P)
		require.NoError(t, err, key.Name)
		assert.True(t, v.OK())
		assert.Equal(t, 0, v.ExpectedD.Cmp(v.RecoveredD))
	}
}

func TestCrossValidate_Failures(t *testing.T) {
	key := SampleKeys()[0]

	tests := []struct {
		name    string
		p, q    *big.Int
		wantErr error
		check   func(t *testing.T, v *Verification)
	}{
		{
			name:    "wrong product",
			p:       big.NewInt(25117),
			q:       big.NewInt(25603),
			wantErr: ErrFactorMismatch,
			check: func(t *testing.T, v *Verification) {
				assert.False(t, v.ProductMatches)
			},
		},
		{
			name:    "trivial split",
			p:       big.NewInt(1),
			q:       new(big.Int).Set(key.N),
			wantErr: ErrNotPrime,
			check: func(t *testing.T, v *Verification) {
				assert.True(t, v.ProductMatches)
				assert.False(t, v.FactorsPrime)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CrossValidate(key, tt.p, tt.q)
			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, v)
			assert.False(t, v.OK())
			tt.check(t, v)
		})
	}
}

func TestCrossValidate_OtherKeysPrimes(t *testing.T) {
	// 61 * 53 = 3233 is a valid split of a different key
	key, err := NewKeyPair("textbook", big.NewInt(61), big.NewInt(53), big.NewInt(17))
	require.NoError(t, err)

	fake := &KeyPair{Name: "fake", P: big.NewInt(3233), Q: big.NewInt(1), N: big.NewInt(3233), E: key.E}
	v, err := CrossValidate(fake, key.P, key.Q)
	require.ErrorIs(t, err, ErrFactorMismatch)
	assert.True(t, v.ProductMatches)
	assert.True(t, v.FactorsPrime)
	assert.False(t, v.FactorsMatch)
}

func TestIsPrime(t *testing.T) {
	primes := []int64{2, 3, 61, 25117, 25601, 131071, 262151}
	for _, p := range primes {
		assert.True(t, IsPrime(big.NewInt(p)), "%d", p)
	}
	composites := []int64{-7, 0, 1, 4, 3233, 643020317, 68720000989}
	for _, c := range composites {
		assert.False(t, IsPrime(big.NewInt(c)), "%d", c)
	}

	// 2^89 - 1 is a Mersenne prime beyond the word-size path
	m89 := new(big.Int).Lsh(big.NewInt(1), 89)
	m89.Sub(m89, big.NewInt(1))
	assert.True(t, IsPrime(m89))
}
