package ai

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// job is one unit of background work: run produces the outcome, deliver
// hands it back. A job that has been detached still runs to completion
// on the worker, but its outcome is discarded.
type job struct {
	run      func() outcome
	deliver  func(outcome)
	detached atomic.Bool
}

// All searches in the process share one background worker, so at most
// one search computes at a time and queued requests run in submission
// order. The worker starts lazily on the first submit and lives for the
// rest of the process.
var (
	startWorker sync.Once
	jobs        chan *job
	workers     errgroup.Group
)

func submit(j *job) {
	startWorker.Do(func() {
		jobs = make(chan *job, 8)
		workers.Go(runWorker)
	})
	jobs <- j
}

func runWorker() error {
	for j := range jobs {
		out := j.run()
		if j.detached.Load() {
			continue
		}
		j.deliver(out)
	}
	return nil
}
