// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of periodic background work.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // per run; zero means 30s
	Run      func(ctx context.Context) error
}

// Runner ticks each Job on its own goroutine until Stop.
type Runner struct {
	log    *zap.Logger
	jobs   []Job
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	return &Runner{
		log:    logger,
		jobs:   jobs,
		stopCh: make(chan struct{}),
	}
}

// Start launches every job. Each job runs once immediately, then on its
// interval.
func (rn *Runner) Start() {
	for _, j := range rn.jobs {
		rn.wg.Add(1)
		go rn.loop(j)
		rn.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop signals all jobs and waits for in-flight runs to finish.
// Safe to call more than once.
func (rn *Runner) Stop() {
	rn.once.Do(func() {
		close(rn.stopCh)
		rn.wg.Wait()
		rn.log.Info("background jobs stopped")
	})
}

func (rn *Runner) loop(j Job) {
	defer rn.wg.Done()

	rn.runOnce(j)
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-rn.stopCh:
			return
		case <-ticker.C:
			rn.runOnce(j)
		}
	}
}

func (rn *Runner) runOnce(j Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		rn.log.Error("background job failed", zap.String("job", j.Name), zap.Error(err))
	}
}
