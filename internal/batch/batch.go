// Package batch factors independent moduli on a fixed pool of workers.
package batch

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mahdiidarabi/rsa-qsieve/pkg/qsieve"
)

// Job is a single modulus to factor.
type Job struct {
	Name string
	N    *big.Int
}

// Outcome is the result of one Job. Exactly one of Result and Err is set.
type Outcome struct {
	Job     Job
	Result  *qsieve.Result
	Err     error
	Elapsed time.Duration
}

// workItem carries a job and its position in the input.
type workItem struct {
	index int
	job   Job
}

// Run factors every job with the given factorizer using numWorkers parallel
// workers (0 = auto-detect based on CPU cores).
//
// Each factorization owns its state, so the outcomes are identical to a
// sequential run. Outcomes are returned in input order. When ctx is
// cancelled, jobs not yet started report ctx.Err().
func Run(ctx context.Context, factorizer qsieve.Factorizer, jobs []Job, numWorkers int, logger *slog.Logger) []Outcome {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	outcomes := make([]Outcome, len(jobs))
	for i, job := range jobs {
		outcomes[i].Job = job
	}
	if len(jobs) == 0 {
		return outcomes
	}

	logger.Info("batch started", "jobs", len(jobs), "workers", numWorkers, "strategy", factorizer.Name())

	workChan := make(chan workItem, numWorkers*2)
	var done int64

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(ctx, factorizer, workChan, outcomes, &done, len(jobs), logger.With("worker", workerID))
		}(i)
	}

	// Generate work items in a separate goroutine
	go func() {
		defer close(workChan)
		for i, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case workChan <- workItem{index: i, job: job}:
			}
		}
	}()

	wg.Wait()

	// Jobs the generator never handed out
	for i := range outcomes {
		if outcomes[i].Result == nil && outcomes[i].Err == nil {
			outcomes[i].Err = ctx.Err()
		}
	}

	logger.Info("batch finished", "completed", atomic.LoadInt64(&done), "jobs", len(jobs))
	return outcomes
}

// worker processes work items until the channel is closed. Each worker
// writes only to the outcome slots of the items it received.
func worker(
	ctx context.Context,
	factorizer qsieve.Factorizer,
	workChan <-chan workItem,
	outcomes []Outcome,
	done *int64,
	total int,
	logger *slog.Logger,
) {
	for work := range workChan {
		if err := ctx.Err(); err != nil {
			outcomes[work.index].Err = err
			continue
		}

		start := time.Now()
		res, err := factorizer.Factorize(ctx, work.job.N)
		outcomes[work.index].Result = res
		outcomes[work.index].Err = err
		outcomes[work.index].Elapsed = time.Since(start)

		n := atomic.AddInt64(done, 1)
		if err != nil {
			logger.Warn("job failed", "name", work.job.Name, "n", work.job.N, "err", err)
		} else {
			logger.Debug("job done", "name", work.job.Name, "factors", res.Factors, "elapsed", outcomes[work.index].Elapsed)
		}
		logger.Debug("progress", "done", n, "total", total)
	}
}
