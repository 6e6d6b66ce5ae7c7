// Package pool implements a fixed-size worker pool draining a single
// shared, unbounded job queue. A job that panics takes down only its own
// goroutine; the pool immediately replaces it, so the steady-state worker
// count never drops.
package pool

import (
	"sync"

	"go.uber.org/zap"
)

// Job is a unit of work submitted to the pool. It is invoked at most once.
type Job func()

// Pool is a fixed-size collection of goroutines consuming Jobs from a
// shared queue.
type Pool struct {
	size int
	log  *zap.SugaredLogger
	q    *queue
	wg   sync.WaitGroup
}

// New starts a Pool with size worker goroutines.
func New(size int, log *zap.SugaredLogger) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{size: size, log: log, q: newQueue()}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
	return p
}

// Spawn enqueues job for execution by some worker. It never blocks.
func (p *Pool) Spawn(job Job) {
	p.q.push(job)
}

// Stop closes the queue and waits for every worker, including any
// panic-respawned replacements, to drain it and exit.
func (p *Pool) Stop() {
	p.q.close()
	p.wg.Wait()
}

// runWorker pulls jobs off the shared queue until it is closed and
// drained. If a job panics, the deferred recover logs it, spawns a
// replacement worker with the same id, and lets this goroutine exit —
// only the panicking job is lost, the pool's capacity is unaffected.
func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("worker panicked, respawning", "workerID", id, "panic", r)
			p.wg.Add(1)
			go p.runWorker(id)
		}
	}()

	for {
		job, ok := p.q.pop()
		if !ok {
			return
		}
		job()
	}
}
