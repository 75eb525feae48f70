package batch

import (
	"context"
	"net/http"
	"time"

	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/pkg/errors"

	"github.com/rs/zerolog"
)

// Assigner moves students and teachers between the eligible pool and a
// batch's member lists. Assignment and removal are two-sided on the
// server; the client's half of the contract is to reload batches plus
// eligible users after every successful call.
type Assigner struct {
	client   *rest.Client
	dir      *Directory
	recorder journal.Recorder
	log      zerolog.Logger
}

func NewAssigner(client *rest.Client, dir *Directory, recorder journal.Recorder) *Assigner {
	return &Assigner{
		client:   client,
		dir:      dir,
		recorder: recorder,
		log:      logger.Component("assignment"),
	}
}

func (a *Assigner) AssignStudents(ctx context.Context, batchID string, studentIDs []string) error {
	return a.mutate(ctx, batchID, studentIDs, http.MethodPost, "/assign-students", "assign-students", nil)
}

func (a *Assigner) AssignTeachers(ctx context.Context, batchID string, teacherIDs []string) error {
	return a.mutate(ctx, batchID, teacherIDs, http.MethodPost, "/assign-teachers", "assign-teachers", nil)
}

func (a *Assigner) RemoveStudents(ctx context.Context, batchID string, studentIDs []string) error {
	return a.mutate(ctx, batchID, studentIDs, http.MethodDelete, "/remove-students", "remove-students",
		func(b model.Batch) bool { return len(b.Students) == 0 })
}

func (a *Assigner) RemoveTeachers(ctx context.Context, batchID string, teacherIDs []string) error {
	return a.mutate(ctx, batchID, teacherIDs, http.MethodDelete, "/remove-teachers", "remove-teachers",
		func(b model.Batch) bool { return len(b.Teachers) == 0 })
}

// mutate is the shared assign/remove path. An empty selection is rejected
// before any network call; removal against a batch with nothing to remove
// short-circuits with an informational error instead of a request.
func (a *Assigner) mutate(ctx context.Context, batchID string, userIDs []string, method, suffix, action string, emptyCheck func(model.Batch) bool) error {
	if len(userIDs) == 0 {
		return errors.ErrNothingSelected
	}
	if emptyCheck != nil {
		if b, ok := a.dir.BatchByID(batchID); ok && emptyCheck(b) {
			return errors.ErrNoAssignedUsers
		}
	}

	start := time.Now()
	err := a.client.DoJSON(ctx, method, "/batches/"+batchID+suffix, model.AssignmentRequest{UserIDs: userIDs}, nil)
	a.record(ctx, action, batchID, start, err)
	if err != nil {
		a.log.Error().Err(err).Str("batch_id", batchID).Str("action", action).Msg("Assignment call failed")
		return err
	}

	a.log.Info().Str("batch_id", batchID).Str("action", action).Int("count", len(userIDs)).Msg("Assignment applied")
	a.reload(ctx)
	return nil
}

// AssignRoster applies one chunk of roster tuples to a batch. The caller
// (the roster importer) owns chunking and the final reload.
func (a *Assigner) AssignRoster(ctx context.Context, batchID string, assignments []model.StudentAssignment) error {
	if len(assignments) == 0 {
		return errors.ErrNothingSelected
	}

	start := time.Now()
	err := a.client.DoJSON(ctx, http.MethodPost, "/batches/"+batchID+"/assign-students",
		model.BulkAssignmentRequest{Assignments: assignments}, nil)
	a.record(ctx, "assign-roster", batchID, start, err)
	return err
}

// Reload refreshes the collections affected by membership changes.
func (a *Assigner) Reload(ctx context.Context) {
	a.reload(ctx)
}

func (a *Assigner) reload(ctx context.Context) {
	if err := a.dir.LoadBatches(ctx); err != nil {
		a.log.Error().Err(err).Msg("Failed to reload batches after assignment")
	}
	a.dir.LoadEligibleUsers(ctx)
}

func (a *Assigner) record(ctx context.Context, action, target string, start time.Time, opErr error) {
	entry := journal.Entry{
		Entity:   "batch",
		Action:   action,
		Target:   target,
		Outcome:  journal.OutcomeOK,
		Duration: time.Since(start),
	}
	if opErr != nil {
		entry.Outcome = journal.OutcomeFailed
		entry.Message = opErr.Error()
	}
	if err := a.recorder.Record(ctx, entry); err != nil {
		a.log.Warn().Err(err).Msg("Failed to record journal entry")
	}
}

// AvailableForDialog filters an available pool down to users not already
// in the target list, computed client-side from lists already fetched.
func AvailableForDialog(available, current []model.User) []model.User {
	taken := make(map[string]bool, len(current))
	for _, u := range current {
		taken[u.ID] = true
	}
	var out []model.User
	for _, u := range available {
		if !taken[u.ID] {
			out = append(out, u)
		}
	}
	return out
}
