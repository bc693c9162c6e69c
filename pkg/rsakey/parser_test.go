package rsakey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSampleKeys(t *testing.T, keys []*KeyPair) {
	t.Helper()
	want := SampleKeys()
	require.Len(t, keys, len(want))
	for i, k := range keys {
		assert.Equal(t, want[i].Name, k.Name)
		assert.Equal(t, 0, want[i].P.Cmp(k.P), k.Name)
		assert.Equal(t, 0, want[i].Q.Cmp(k.Q), k.Name)
		assert.Equal(t, 0, want[i].N.Cmp(k.N), k.Name)
		assert.Equal(t, int64(DefaultExponent), k.E.Int64(), k.Name)
	}
}

func TestJSONParser_ParseKeys(t *testing.T) {
	parser := &JSONParser{}
	keys, err := parser.ParseKeys(filepath.Join(fixturesDir(), "keys.json"))
	require.NoError(t, err)
	assertSampleKeys(t, keys)
}

func TestCSVParser_ParseKeys(t *testing.T) {
	parser := &CSVParser{}
	keys, err := parser.ParseKeys(filepath.Join(fixturesDir(), "keys.csv"))
	require.NoError(t, err)
	assertSampleKeys(t, keys)
}

func TestJSONParser_ModulusMismatch(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.ParseKeys(filepath.Join(fixturesDir(), "keys_bad_modulus.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestJSONParser_CustomFields(t *testing.T) {
	parser := &JSONParser{PField: "prime1", QField: "prime2", EField: "exponent"}
	keys, err := parser.Decode(strings.NewReader(`[{"prime1": 61, "prime2": 53, "exponent": 17}]`))
	require.NoError(t, err)
	require.Len(t, keys, 1)

	assert.Equal(t, "key1", keys[0].Name)
	assert.Equal(t, int64(3233), keys[0].N.Int64())
	assert.Equal(t, int64(17), keys[0].E.Int64())
}

func TestJSONParser_Errors(t *testing.T) {
	parser := &JSONParser{}

	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{{`},
		{"missing q", `[{"p": 61}]`},
		{"bad number", `[{"p": "sixty-one", "q": 53}]`},
		{"bad type", `[{"p": true, "q": 53}]`},
		{"prime too small", `[{"p": 1, "q": 53}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := parser.ParseKeys(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCSVParser_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,p\nkey1,61\n"), 0o644))

	parser := &CSVParser{}
	_, err := parser.ParseKeys(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParseBigInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
	}{
		{"12345", 12345},
		{" 0x40007 ", 262151},
		{float64(643020317), 643020317},
		{int64(17), 17},
		{3, 3},
	}
	for _, tt := range tests {
		got, err := parseBigInt(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.Int64())
	}
}
