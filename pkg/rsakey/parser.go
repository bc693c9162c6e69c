package rsakey

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// KeyParser defines the interface for loading key pairs from a source.
type KeyParser interface {
	// ParseKeys parses key pairs from a source and returns them.
	ParseKeys(source string) ([]*KeyPair, error)
}

// JSONParser parses key pairs from JSON files.
type JSONParser struct {
	NameField string // Field name for the key name (default: "name")
	PField    string // Field name for p (default: "p")
	QField    string // Field name for q (default: "q")
	NField    string // Field name for N (default: "n", optional)
	EField    string // Field name for e (default: "e", optional, 65537 when absent)
}

// ParseKeys parses key pairs from a JSON file.
//
// Expected format:
// [
//
//	{"name": "key1", "p": 25117, "q": 25601, "n": 643020317, "e": 65537},
//	{"name": "key2", "p": "0x1ffff", "q": "131129"}
//
// ]
func (p *JSONParser) ParseKeys(jsonFile string) ([]*KeyPair, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	return p.Decode(file)
}

// Decode parses key pairs from a JSON stream.
func (p *JSONParser) Decode(r io.Reader) ([]*KeyPair, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	fields := keyFields{
		name: orDefault(p.NameField, "name"),
		p:    orDefault(p.PField, "p"),
		q:    orDefault(p.QField, "q"),
		n:    orDefault(p.NField, "n"),
		e:    orDefault(p.EField, "e"),
	}

	keys := make([]*KeyPair, 0, len(items))
	for i, item := range items {
		raw := rawKey{}
		if v, ok := item[fields.name]; ok {
			raw.name = fmt.Sprint(v)
		}
		if v, ok := item[fields.p]; ok {
			raw.p = v
		}
		if v, ok := item[fields.q]; ok {
			raw.q = v
		}
		if v, ok := item[fields.n]; ok {
			raw.n = v
		}
		if v, ok := item[fields.e]; ok {
			raw.e = v
		}

		key, err := raw.build(i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// CSVParser parses key pairs from CSV files with a header row.
type CSVParser struct {
	NameCol string // Column name for the key name (default: "name")
	PCol    string // Column name for p (default: "p")
	QCol    string // Column name for q (default: "q")
	NCol    string // Column name for N (default: "n", optional)
	ECol    string // Column name for e (default: "e", optional)
}

// ParseKeys parses key pairs from a CSV file.
func (p *CSVParser) ParseKeys(csvFile string) ([]*KeyPair, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := keyFields{
		name: orDefault(p.NameCol, "name"),
		p:    orDefault(p.PCol, "p"),
		q:    orDefault(p.QCol, "q"),
		n:    orDefault(p.NCol, "n"),
		e:    orDefault(p.ECol, "e"),
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	if _, ok := idx[cols.p]; !ok {
		return nil, fmt.Errorf("missing required columns: p or q")
	}
	if _, ok := idx[cols.q]; !ok {
		return nil, fmt.Errorf("missing required columns: p or q")
	}

	cell := func(record []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(record) || strings.TrimSpace(record[i]) == "" {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	keys := make([]*KeyPair, 0)
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		raw := rawKey{}
		if v, ok := cell(record, cols.name); ok {
			raw.name = v
		}
		if v, ok := cell(record, cols.p); ok {
			raw.p = v
		}
		if v, ok := cell(record, cols.q); ok {
			raw.q = v
		}
		if v, ok := cell(record, cols.n); ok {
			raw.n = v
		}
		if v, ok := cell(record, cols.e); ok {
			raw.e = v
		}

		key, err := raw.build(row)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

type keyFields struct {
	name, p, q, n, e string
}

type rawKey struct {
	name       string
	p, q, n, e interface{}
}

func (r rawKey) build(index int) (*KeyPair, error) {
	name := r.name
	if name == "" {
		name = fmt.Sprintf("key%d", index+1)
	}
	if r.p == nil || r.q == nil {
		return nil, fmt.Errorf("key %q: missing p or q field", name)
	}

	p, err := parseBigInt(r.p)
	if err != nil {
		return nil, fmt.Errorf("key %q: failed to parse p: %w", name, err)
	}
	q, err := parseBigInt(r.q)
	if err != nil {
		return nil, fmt.Errorf("key %q: failed to parse q: %w", name, err)
	}

	e := big.NewInt(DefaultExponent)
	if r.e != nil {
		if e, err = parseBigInt(r.e); err != nil {
			return nil, fmt.Errorf("key %q: failed to parse e: %w", name, err)
		}
	}

	key, err := NewKeyPair(name, p, q, e)
	if err != nil {
		return nil, err
	}

	if r.n != nil {
		n, err := parseBigInt(r.n)
		if err != nil {
			return nil, fmt.Errorf("key %q: failed to parse n: %w", name, err)
		}
		if n.Cmp(key.N) != 0 {
			return nil, fmt.Errorf("key %q: n = %s but p*q = %s", name, n, key.N)
		}
	}
	return key, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseBigInt parses a big integer from a decimal string, a 0x-prefixed hex
// string or a JSON number.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		}
		z, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		// json.Number preserves precision for large integers
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case float64:
		// Fallback for decoders without UseNumber; exact only below 2^53
		z, ok := new(big.Int).SetString(fmt.Sprintf("%.0f", v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %v", v)
		}
		return z, nil

	case int64:
		return big.NewInt(v), nil

	case int:
		return big.NewInt(int64(v)), nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}
