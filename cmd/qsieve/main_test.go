package main

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/rsa-qsieve/internal/config"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/qsieve"
)

func TestParseModuli(t *testing.T) {
	got, err := parseModuli("643020317, 0x40007 ,15")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(643020317), got[0].Int64())
	assert.Equal(t, int64(262151), got[1].Int64())
	assert.Equal(t, int64(15), got[2].Int64())

	_, err = parseModuli("12x")
	assert.Error(t, err)
	_, err = parseModuli(" , ")
	assert.Error(t, err)
}

func TestBreakModuli(t *testing.T) {
	err := breakModuli(context.Background(), qsieve.NewClient(), []*big.Int{big.NewInt(3233)}, big.NewInt(17))
	require.NoError(t, err)

	err = breakModuli(context.Background(), qsieve.NewClient(), []*big.Int{big.NewInt(3234)}, big.NewInt(17))
	require.ErrorIs(t, err, qsieve.ErrInvalidModulus)
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultRunConfig()
	cfg.Repetitions = 5
	cfg.Workers = 2
	cfg.Report = filepath.Join(dir, "REPORT.md")
	cfg.Plots = filepath.Join(dir, "plots.html")

	err := run(context.Background(), cfg, qsieve.NewQuadraticSieve(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	md, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	assert.Contains(t, string(md), "key3")

	html, err := os.ReadFile(cfg.Plots)
	require.NoError(t, err)
	assert.NotEmpty(t, html)
}
