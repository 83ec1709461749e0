package automation

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/sandpend/internal/config"
	"github.com/san-kum/sandpend/internal/session"
)

// Ensemble solves many throws of one pendulum concurrently.
type Ensemble struct {
	pendulum config.PendulumConfig
	workers  int
	logger   *zap.Logger
}

// NewEnsemble returns an ensemble with one worker per CPU when workers < 1.
func NewEnsemble(pendulum config.PendulumConfig, workers int, logger *zap.Logger) *Ensemble {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{pendulum: pendulum, workers: workers, logger: logger}
}

// Run solves every throw and returns the plans in the same order. The
// first error, or the context's, is returned once all workers stop.
func (e *Ensemble) Run(ctx context.Context, throws []config.ThrowConfig) ([]*session.Plan, error) {
	if err := e.pendulum.Validate(); err != nil {
		return nil, err
	}

	plans := make([]*session.Plan, len(throws))
	errs := make([]error, len(throws))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(e.workers, len(throws)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s, err := session.New(e.pendulum, e.logger)
			for idx := range jobs {
				if err != nil {
					errs[idx] = err
					continue
				}
				if errs[idx] = ctx.Err(); errs[idx] != nil {
					continue
				}
				plans[idx], errs[idx] = s.ThrowAt(throws[idx])
			}
		}()
	}

	for i := range throws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return plans, nil
}
