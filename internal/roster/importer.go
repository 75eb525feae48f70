package roster

import (
	"context"
	"fmt"
	"os"
	"sync"

	"coaching-admin-client/internal/batch"
	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/worker"

	"github.com/rs/zerolog"
)

// Importer bulk-assigns a roster file to a batch: parse, chunk, push the
// chunks through the worker pool, then reload the directory once at the
// end. The server treats each chunk atomically per its response.
type Importer struct {
	cfg      *config.Config
	parser   *Parser
	assigner *batch.Assigner
	log      zerolog.Logger
}

func NewImporter(cfg *config.Config, assigner *batch.Assigner) *Importer {
	return &Importer{
		cfg:      cfg,
		parser:   NewParser(),
		assigner: assigner,
		log:      logger.Component("roster-import"),
	}
}

// ImportFile reads and applies a roster spreadsheet. It returns the
// number of assigned students and the per-chunk errors, if any.
func (i *Importer) ImportFile(ctx context.Context, path, batchID string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read roster file: %w", err)
	}
	return i.Import(ctx, data, batchID)
}

func (i *Importer) Import(ctx context.Context, data []byte, batchID string) (int, error) {
	assignments, err := i.parser.Parse(data)
	if err != nil {
		return 0, err
	}

	i.log.Info().
		Int("students", len(assignments)).
		Str("batch_id", batchID).
		Msg("Starting roster import")

	pool := worker.NewPool(i.cfg.Roster.WorkerCount)
	pool.Start(ctx)

	var (
		mu        sync.Mutex
		failed    int
		lastErr   error
		succeeded int
	)

	for _, chunk := range chunkAssignments(assignments, i.cfg.Roster.ChunkSize) {
		chunk := chunk
		submitErr := pool.Submit(ctx, func(ctx context.Context) error {
			if err := i.assigner.AssignRoster(ctx, batchID, chunk); err != nil {
				mu.Lock()
				failed += len(chunk)
				lastErr = err
				mu.Unlock()
				return err
			}
			mu.Lock()
			succeeded += len(chunk)
			mu.Unlock()
			return nil
		})
		if submitErr != nil {
			pool.Stop()
			return succeeded, submitErr
		}
	}

	pool.Stop()

	// One reload at the end, not one per chunk.
	i.assigner.Reload(ctx)

	i.log.Info().
		Int("succeeded", succeeded).
		Int("failed", failed).
		Msg("Roster import completed")

	if lastErr != nil {
		return succeeded, fmt.Errorf("%d of %d students failed to assign: %w",
			failed, len(assignments), lastErr)
	}
	return succeeded, nil
}

func chunkAssignments(assignments []model.StudentAssignment, size int) [][]model.StudentAssignment {
	if size <= 0 {
		size = len(assignments)
	}
	var chunks [][]model.StudentAssignment
	for start := 0; start < len(assignments); start += size {
		end := start + size
		if end > len(assignments) {
			end = len(assignments)
		}
		chunks = append(chunks, assignments[start:end])
	}
	return chunks
}
