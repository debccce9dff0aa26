package pool

import (
	"sync"

	"go.uber.org/zap"
)

// NaivePool spawns a brand-new goroutine for every job and never reuses
// one, mirroring the reference's NaiveThreadPool. It exists mainly as a
// baseline to compare SharedQueue against under load.
type NaivePool struct {
	wg  sync.WaitGroup
	log *zap.SugaredLogger
}

// NewNaivePool returns a pool with no fixed worker count; threads is
// accepted only for interface parity with SharedQueue.
func NewNaivePool(threads int, log *zap.SugaredLogger) *NaivePool {
	return &NaivePool{log: log}
}

func (p *NaivePool) Spawn(job Job) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer recoverJobPanic(p.log)
		job()
	}()
}

// Close waits for every outstanding goroutine spawned by this pool to
// finish. It never errors.
func (p *NaivePool) Close() error {
	p.wg.Wait()
	return nil
}

func recoverJobPanic(log *zap.SugaredLogger) {
	if r := recover(); r != nil {
		log.Errorw("pool job panicked", "recovered", r)
	}
}
