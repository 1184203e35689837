package cache

import (
	"sync"
)

// rebuildPool is a fixed-size worker pool for background cache rebuilds,
// owned by the Client and shut down deterministically. Slow source-of-truth
// fetches run here so cache readers are never starved.
type rebuildPool struct {
	jobs     chan func()
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newRebuildPool(workers int) *rebuildPool {
	if workers < 1 {
		workers = 1
	}
	p := &rebuildPool{
		jobs: make(chan func(), workers*4),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// TrySubmit enqueues a job without blocking. Reports false when the pool
// is saturated; the caller keeps serving stale data in that case.
func (p *rebuildPool) TrySubmit(job func()) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop closes intake and waits for in-flight jobs. Once submitted, a
// rebuild job always runs to completion.
func (p *rebuildPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
