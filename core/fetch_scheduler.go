package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/smarty/assetmirror/contracts"
)

// FetchScheduler dispatches one version's asset jobs across a bounded pool
// of P concurrent workers. It is grounded on the teacher's
// goroutine/sync.WaitGroup/channel idiom in cmd/satisfy/download.go,
// generalized with an explicit semaphore so the concurrency bound of §4.6
// is enforced rather than left to however many dependencies happen to be
// configured.
type FetchScheduler struct {
	Job      *AssetJob
	Progress contracts.ProgressSink
	Parallel int
}

func NewFetchScheduler(job *AssetJob, progress contracts.ProgressSink, parallel int) *FetchScheduler {
	if progress == nil {
		progress = NopProgressSink{}
	}
	return &FetchScheduler{Job: job, Progress: progress, Parallel: parallel}
}

// Run fans every record of one version into a worker, blocking on a
// semaphore of size Parallel so at most Parallel GETs are outstanding at
// once. Every record is attempted exactly once; a job that fails does not
// cancel jobs already dispatched, but its error is what Run ultimately
// returns (the first one observed, if several fail).
func (this *FetchScheduler) Run(ctx context.Context, version uint64, records []contracts.AssetRecord) error {
	parallel := this.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	this.Progress.BeginSet(len(records), fmt.Sprintf("version %d", version))
	defer this.Progress.EndSet()

	semaphore := make(chan struct{}, parallel)
	results := make(chan error, parallel)

	var waiter sync.WaitGroup
	waiter.Add(len(records))

	for _, record := range records {
		record := record
		go func() {
			defer waiter.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := this.Job.Run(ctx, version, record)
			if err != nil {
				this.Progress.Tick(record.Name, 0, contracts.JobFailed)
				results <- fmt.Errorf("asset %q: %w", record.Name, err)
				return
			}
			this.Progress.Tick(result.Name, result.Bytes, result.Status)
			results <- nil
		}()
	}

	go func() {
		waiter.Wait()
		close(results)
	}()

	var firstErr error
	for err := range results {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
