package pool

import (
	"sync"

	"go.uber.org/zap"
)

// SharedQueuePool is a fixed-size pool of worker goroutines draining one
// shared, unbuffered job channel. If a job panics, the worker that ran
// it exits and a fresh replacement worker is spawned before it does, so
// the pool's worker count never shrinks.
type SharedQueuePool struct {
	jobs chan Job
	wg   sync.WaitGroup
	log  *zap.SugaredLogger
}

// NewSharedQueuePool starts workers goroutines immediately, all reading
// from the same job channel.
func NewSharedQueuePool(workers int, log *zap.SugaredLogger) *SharedQueuePool {
	p := &SharedQueuePool{
		jobs: make(chan Job),
		log:  log,
	}
	for i := 0; i < workers; i++ {
		p.startWorker()
	}
	return p
}

func (p *SharedQueuePool) startWorker() {
	p.wg.Add(1)
	go p.runWorker()
}

func (p *SharedQueuePool) runWorker() {
	defer p.wg.Done()
	for job := range p.jobs {
		if !p.runRecovered(job) {
			// This worker is unwinding after a panic; a replacement takes
			// its place on the queue before it exits.
			p.startWorker()
			return
		}
	}
}

func (p *SharedQueuePool) runRecovered(job Job) (ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("shared queue worker panicked, spawning replacement", "recovered", r)
			ok = false
		}
	}()
	job()
	return
}

// Spawn enqueues job for the next free worker. It blocks if all workers
// are busy, since the queue is unbuffered.
func (p *SharedQueuePool) Spawn(job Job) {
	p.jobs <- job
}

// Close stops accepting new jobs by closing the queue and waits for
// every worker, including any respawned replacements, to drain and exit.
func (p *SharedQueuePool) Close() error {
	close(p.jobs)
	p.wg.Wait()
	return nil
}
