package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/sync-vault/internal/logger"
)

// Synchronizer is the slice of the vault API the sync job needs.
type Synchronizer interface {
	Synchronize(ctx context.Context) error
	Flush(ctx context.Context) error
}

// SyncJob periodically synchronizes a vault with its server and flushes it
// to the offline store. The job is idle until Start (or Run) is called.
type SyncJob struct {
	vault    Synchronizer
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob calling vault.Synchronize every interval.
// A non-positive interval defaults to 5 minutes.
func NewSyncJob(vault Synchronizer, interval time.Duration, log *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SyncJob{vault: vault, interval: interval, log: log}
}

// Start stops any previously running job, then launches a background
// goroutine that synchronizes and flushes the vault every interval. The
// goroutine exits when ctx is cancelled or Stop is called. Synchronize
// errors are logged, not fatal: a locked or offline vault simply catches up
// on a later tick.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.vault.Synchronize(jobCtx); err != nil {
					j.log.Warn().Err(err).Msg("background synchronize failed")
				}
				if err := j.vault.Flush(jobCtx); err != nil {
					j.log.Warn().Err(err).Msg("background flush failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run implements Worker by starting the job with a background context.
func (j *SyncJob) Run() {
	j.Start(context.Background())
}
