package worker

import (
	"context"
	"sync"

	"coaching-admin-client/internal/logger"

	"github.com/rs/zerolog"
)

// Pool fans independent jobs out over a fixed number of goroutines. The
// roster importer uses it to push assignment chunks concurrently without
// flooding the backend.
type Pool struct {
	workerCount int
	jobChan     chan func(context.Context) error
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewPool(workerCount int) *Pool {
	return &Pool{
		workerCount: workerCount,
		jobChan:     make(chan func(context.Context) error, workerCount*2),
		log:         logger.Component("worker-pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Debug().Int("worker_count", p.workerCount).Msg("Starting worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit blocks until a worker can take the job or the context ends.
func (p *Pool) Submit(ctx context.Context, job func(context.Context) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobChan <- job:
		return nil
	}
}

// Stop closes intake and waits for in-flight jobs to drain.
func (p *Pool) Stop() {
	close(p.jobChan)
	p.wg.Wait()
	p.log.Debug().Msg("Worker pool stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()

	for job := range p.jobChan {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Worker stopping, context cancelled")
			return
		default:
		}

		if err := job(ctx); err != nil {
			log.Error().Err(err).Msg("Job execution failed")
		}
	}
}
