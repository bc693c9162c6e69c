package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strings"

	"github.com/mahdiidarabi/rsa-qsieve/internal/bench"
	"github.com/mahdiidarabi/rsa-qsieve/internal/config"
	"github.com/mahdiidarabi/rsa-qsieve/internal/report"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/qsieve"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML run configuration")
		keysFile   = flag.String("keys", "", "Path to key file (JSON or CSV); built-in sample keys when empty")
		format     = flag.String("format", "json", "Key file format (json or csv)")
		moduli     = flag.String("n", "", "Factor the given moduli instead of a key set (comma separated)")
		exponent   = flag.Int64("e", rsakey.DefaultExponent, "Public exponent used with -n to derive d")
		numWorkers = flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
		reportPath = flag.String("report", "", "Write a Markdown report to this path")
		plotsPath  = flag.String("plots", "", "Write an HTML page of charts to this path")
		reps       = flag.Int("reps", bench.DefaultRepetitions, "Encrypt/decrypt repetitions per key")
		message    = flag.Int64("message", bench.DefaultMessage, "Message used for the timing runs")
		verbose    = flag.Bool("v", false, "Log sieve state transitions")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Explicit flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keys":
			cfg.Keys = *keysFile
		case "format":
			cfg.Format = *format
		case "workers":
			cfg.Workers = *numWorkers
		case "report":
			cfg.Report = *reportPath
		case "plots":
			cfg.Plots = *plotsPath
		case "reps":
			cfg.Repetitions = *reps
		case "message":
			cfg.Message = *message
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sieve := qsieve.NewQuadraticSieve().WithConfig(cfg.QSieve(logger))
	client := qsieve.NewClient().WithFactorizer(sieve).WithParser(cfg.Parser())

	if *moduli != "" {
		values, err := parseModuli(*moduli)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -n: %v\n", err)
			os.Exit(1)
		}
		if err := breakModuli(ctx, client, values, big.NewInt(*exponent)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, sieve, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func breakModuli(ctx context.Context, client *qsieve.Client, moduli []*big.Int, e *big.Int) error {
	for _, n := range moduli {
		fmt.Printf("Factoring N = %s (%d bits)...\n", n, n.BitLen())
		res, err := client.BreakModulus(ctx, n, e)
		if err != nil {
			return err
		}
		r := res.Result
		fmt.Printf("\n[+] N = %s\n", res.Factors)
		fmt.Printf("    d = %s (e = %s)\n", res.D, e)
		fmt.Printf("    attempts %d, bound %d, interval %d, factor base %d, %s\n\n",
			r.Attempts, r.Bound, r.Interval, r.FactorBaseSize, r.Elapsed)
	}
	return nil
}

func run(ctx context.Context, cfg *config.RunConfig, sieve qsieve.Factorizer, logger *slog.Logger) error {
	keys, err := cfg.LoadKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys to process")
	}

	fmt.Printf("Measuring encryption/decryption (message %d, %d repetitions)...\n", cfg.Message, cfg.Repetitions)
	rsaTimings, err := bench.MeasureRSA(keys, cfg.Message, cfg.Repetitions)
	if err != nil {
		return err
	}

	fmt.Printf("Factoring %d moduli with %s...\n", len(keys), sieve.Name())
	factorTimings := bench.MeasureFactorization(ctx, sieve, keys, cfg.Workers, logger)

	fmt.Printf("\n%-8s %-6s %-14s %-14s %-14s %-12s %s\n", "Key", "Bits", "d", "Encrypt (us)", "Decrypt (us)", "Factor (s)", "Status")
	failed := 0
	for i, rt := range rsaTimings {
		ft := factorTimings[i]
		status := "OK"
		if !ft.OK() {
			status = fmt.Sprintf("FAILED: %v", ft.Err)
			failed++
		}
		fmt.Printf("%-8s %-6d %-14s %-14.4f %-14.4f %-12.4f %s\n",
			rt.Key.Name, rt.Bits, rt.D,
			float64(rt.Encrypt.Nanoseconds())/1e3, float64(rt.Decrypt.Nanoseconds())/1e3,
			ft.Elapsed.Seconds(), status)
	}

	data := report.Data{
		Message:     cfg.Message,
		Repetitions: cfg.Repetitions,
		RSA:         rsaTimings,
		Factor:      factorTimings,
	}
	if fit, err := data.Fit(); err == nil {
		fmt.Printf("\nFitted curve: %s\n", fit)
		fmt.Printf("Estimated factorization time for %d-bit RSA:\n", report.TargetBits)
		fmt.Printf("  %.2e seconds\n", fit.Seconds(report.TargetBits))
		fmt.Printf("  %.2e years\n", fit.Years(report.TargetBits))
	} else {
		logger.Warn("no extrapolation", "err", err)
	}

	if cfg.Report != "" {
		if err := writeFile(cfg.Report, func(f *os.File) error { return report.WriteMarkdown(f, data) }); err != nil {
			return err
		}
		fmt.Println("Report:", cfg.Report)
	}
	if cfg.Plots != "" {
		if err := writeFile(cfg.Plots, func(f *os.File) error { return report.WritePlots(f, data) }); err != nil {
			return err
		}
		fmt.Println("Plots:", cfg.Plots)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d keys failed", failed, len(keys))
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseModuli parses a comma separated list of decimal or 0x-hex integers.
func parseModuli(s string) ([]*big.Int, error) {
	var out []*big.Int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		base := 10
		digits := part
		if strings.HasPrefix(part, "0x") || strings.HasPrefix(part, "0X") {
			base = 16
			digits = part[2:]
		}
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return nil, fmt.Errorf("invalid modulus: %s", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no modulus given")
	}
	return out, nil
}
