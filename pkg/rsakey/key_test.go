package rsakey

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/rsa-qsieve/internal/numtheory"
)

func TestSampleKeys_PrivateExponent(t *testing.T) {
	want := map[string]int64{
		"key1": 489705473,
		"key2": 15834271793,
		"key3": 24051869273,
	}

	keys := SampleKeys()
	require.Len(t, keys, 3)
	for _, k := range keys {
		d, err := k.PrivateExponent()
		require.NoError(t, err)
		assert.Equal(t, want[k.Name], d.Int64(), k.Name)

		check := new(big.Int).Mul(d, k.E)
		check.Mod(check, k.Phi())
		assert.Equal(t, int64(1), check.Int64(), "%s: e*d mod phi", k.Name)
	}
}

func TestSampleKeys_Moduli(t *testing.T) {
	keys := SampleKeys()
	assert.Equal(t, int64(643020317), keys[0].N.Int64())
	assert.Equal(t, int64(17187209159), keys[1].N.Int64())
	assert.Equal(t, int64(68720000989), keys[2].N.Int64())
	assert.Equal(t, 30, keys[0].Bits())
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	for _, k := range SampleKeys() {
		d, err := k.PrivateExponent()
		require.NoError(t, err)

		for _, m := range []int64{0, 1, 12345, 25117, k.N.Int64() - 1} {
			msg := big.NewInt(m)
			c, err := Encrypt(msg, k.E, k.N)
			require.NoError(t, err)
			back, err := Decrypt(c, d, k.N)
			require.NoError(t, err)
			assert.Equal(t, 0, back.Cmp(msg), "%s: m=%d", k.Name, m)
		}
	}
}

func TestEncrypt_OutOfRange(t *testing.T) {
	k := SampleKeys()[0]
	_, err := Encrypt(k.N, k.E, k.N)
	require.ErrorIs(t, err, ErrMessageRange)

	_, err = Decrypt(big.NewInt(-1), k.E, k.N)
	require.ErrorIs(t, err, ErrMessageRange)
}

func TestPrivateExponent_NoInverse(t *testing.T) {
	// phi = 2 * 4 = 8 shares the factor 2 with e = 4
	_, err := PrivateExponent(big.NewInt(3), big.NewInt(5), big.NewInt(4))
	require.ErrorIs(t, err, numtheory.ErrNoInverse)
}

func TestNewKeyPair_Validation(t *testing.T) {
	_, err := NewKeyPair("x", nil, big.NewInt(5), big.NewInt(3))
	require.Error(t, err)

	_, err = NewKeyPair("x", big.NewInt(1), big.NewInt(5), big.NewInt(3))
	require.Error(t, err)

	k, err := NewKeyPair("rsa-textbook", big.NewInt(61), big.NewInt(53), big.NewInt(17))
	require.NoError(t, err)
	assert.Equal(t, int64(3233), k.N.Int64())
	d, err := k.PrivateExponent()
	require.NoError(t, err)
	assert.Equal(t, int64(2753), d.Int64())
}

func TestFingerprint(t *testing.T) {
	keys := SampleKeys()
	f1 := keys[0].Fingerprint()
	assert.Len(t, f1, 16)
	assert.Equal(t, f1, Fingerprint(big.NewInt(643020317), big.NewInt(65537)))
	assert.NotEqual(t, f1, keys[1].Fingerprint())
	assert.NotEqual(t, f1, Fingerprint(keys[0].N, big.NewInt(3)))
}
