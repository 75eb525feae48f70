package batch

import (
	"context"
	"fmt"
	"sync"

	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"

	"github.com/rs/zerolog"
)

// Directory holds the client-side snapshot of batches and eligible users.
// There is no local cache patching: every mutation elsewhere reloads the
// affected collections through this type, so the snapshot only ever
// reflects what the backend last said.
type Directory struct {
	client *rest.Client
	log    zerolog.Logger

	mu               sync.RWMutex
	batches          []model.Batch
	eligibleStudents []model.User
	eligibleTeachers []model.User
}

func NewDirectory(client *rest.Client) *Directory {
	return &Directory{
		client: client,
		log:    logger.Component("directory"),
	}
}

// LoadBatches replaces the batch snapshot. On failure the previous
// snapshot is kept untouched.
func (d *Directory) LoadBatches(ctx context.Context) error {
	var batches []model.Batch
	if err := d.client.Get(ctx, "/batches", &batches); err != nil {
		return fmt.Errorf("failed to load batches: %w", err)
	}

	d.mu.Lock()
	d.batches = batches
	d.mu.Unlock()

	d.log.Debug().Int("count", len(batches)).Msg("Batches loaded")
	return nil
}

// LoadEligibleUsers fetches eligible students and teachers concurrently.
// Each leg fails independently: an error is logged and the other leg
// still lands.
func (d *Directory) LoadEligibleUsers(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var students []model.User
		if err := d.client.Get(ctx, "/batches/eligible-students", &students); err != nil {
			d.log.Error().Err(err).Msg("Failed to load eligible students")
			return
		}
		d.mu.Lock()
		d.eligibleStudents = students
		d.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		var teachers []model.User
		if err := d.client.Get(ctx, "/batches/eligible-teachers", &teachers); err != nil {
			d.log.Error().Err(err).Msg("Failed to load eligible teachers")
			return
		}
		d.mu.Lock()
		d.eligibleTeachers = teachers
		d.mu.Unlock()
	}()

	wg.Wait()
}

// AvailableUsersForBatch returns the per-batch selection pools: eligible
// users plus the batch's own members, so edit dialogs keep current
// members selectable.
func (d *Directory) AvailableUsersForBatch(ctx context.Context, batchID string) (students, teachers []model.User, err error) {
	var wg sync.WaitGroup
	var studentErr, teacherErr error
	wg.Add(2)

	go func() {
		defer wg.Done()
		studentErr = d.client.Get(ctx, "/batches/"+batchID+"/available-students", &students)
	}()
	go func() {
		defer wg.Done()
		teacherErr = d.client.Get(ctx, "/batches/"+batchID+"/available-teachers", &teachers)
	}()
	wg.Wait()

	if studentErr != nil {
		return nil, nil, fmt.Errorf("failed to load available students: %w", studentErr)
	}
	if teacherErr != nil {
		return nil, nil, fmt.Errorf("failed to load available teachers: %w", teacherErr)
	}
	return students, teachers, nil
}

// AllTeachers fetches the complete teacher roster, used when wiring a
// subject to a teacher regardless of batch membership.
func (d *Directory) AllTeachers(ctx context.Context) ([]model.User, error) {
	var teachers []model.User
	if err := d.client.Get(ctx, "/batches/all-teachers", &teachers); err != nil {
		return nil, fmt.Errorf("failed to load teachers: %w", err)
	}
	return teachers, nil
}

// Refresh is the pull-to-refresh path: all three loads run concurrently
// and are joined. The batch load error is surfaced, the eligible loads
// log their own failures.
func (d *Directory) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	var batchErr error
	wg.Add(2)

	go func() {
		defer wg.Done()
		batchErr = d.LoadBatches(ctx)
	}()
	go func() {
		defer wg.Done()
		d.LoadEligibleUsers(ctx)
	}()
	wg.Wait()

	return batchErr
}

func (d *Directory) Batches() []model.Batch {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Batch, len(d.batches))
	copy(out, d.batches)
	return out
}

func (d *Directory) BatchByID(id string) (model.Batch, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, b := range d.batches {
		if b.ID == id {
			return b, true
		}
	}
	return model.Batch{}, false
}

func (d *Directory) EligibleStudents() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.User, len(d.eligibleStudents))
	copy(out, d.eligibleStudents)
	return out
}

func (d *Directory) EligibleTeachers() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.User, len(d.eligibleTeachers))
	copy(out, d.eligibleTeachers)
	return out
}
