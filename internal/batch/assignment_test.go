package batch

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"coaching-admin-client/pkg/errors"
)

func TestAssignRejectsEmptySelection(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)
	dir := NewDirectory(client)

	assigner := NewAssigner(client, dir, noopRecorder())
	if err := assigner.AssignStudents(context.Background(), "b1", nil); !stderrors.Is(err, errors.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if err := assigner.AssignTeachers(context.Background(), "b1", []string{}); !stderrors.Is(err, errors.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if backend.requestCount() != 0 {
		t.Fatalf("expected zero network calls, got %d", backend.requestCount())
	}
}

func TestRemoveFromEmptyBatchShortCircuits(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)
	dir := NewDirectory(client)

	batchID := seedBatch(t, dir, "Alpha", []string{"11th"})
	before := backend.requestCount()

	assigner := NewAssigner(client, dir, noopRecorder())
	err := assigner.RemoveStudents(context.Background(), batchID, []string{"s1"})
	if !stderrors.Is(err, errors.ErrNoAssignedUsers) {
		t.Fatalf("expected ErrNoAssignedUsers, got %v", err)
	}
	if backend.requestCount() != before {
		t.Fatal("removal from an empty batch must not reach the network")
	}
}

func TestAssignThenRemoveRestoresEligibleSet(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)
	dir := NewDirectory(client)

	batchID := seedBatch(t, dir, "Alpha", []string{"11th"})
	dir.LoadEligibleUsers(context.Background())
	before := userIDs(dir.EligibleStudents())

	assigner := NewAssigner(client, dir, noopRecorder())
	if err := assigner.AssignStudents(context.Background(), batchID, []string{"s2"}); err != nil {
		t.Fatalf("AssignStudents() failed: %v", err)
	}

	during := userIDs(dir.EligibleStudents())
	if len(during) != len(before)-1 {
		t.Fatalf("expected one fewer eligible student, got %v", during)
	}

	if err := assigner.RemoveStudents(context.Background(), batchID, []string{"s2"}); err != nil {
		t.Fatalf("RemoveStudents() failed: %v", err)
	}

	after := userIDs(dir.EligibleStudents())
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("eligible set not restored: before %v, after %v", before, after)
	}
}

func TestAssignTeachersReloadsDirectory(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)
	dir := NewDirectory(client)

	batchID := seedBatch(t, dir, "Alpha", []string{"11th"})

	assigner := NewAssigner(client, dir, noopRecorder())
	if err := assigner.AssignTeachers(context.Background(), batchID, []string{"t1"}); err != nil {
		t.Fatalf("AssignTeachers() failed: %v", err)
	}

	b, _ := dir.BatchByID(batchID)
	if len(b.Teachers) != 1 || b.Teachers[0].ID != "t1" {
		t.Fatalf("expected t1 assigned after reload, got %v", b.Teachers)
	}

	if err := assigner.RemoveTeachers(context.Background(), batchID, []string{"t1"}); err != nil {
		t.Fatalf("RemoveTeachers() failed: %v", err)
	}
	b, _ = dir.BatchByID(batchID)
	if len(b.Teachers) != 0 {
		t.Fatalf("expected no teachers after removal, got %v", b.Teachers)
	}
}

func TestAssignmentFailureSurfacesServerMessage(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)
	dir := NewDirectory(client)

	batchID := seedBatch(t, dir, "Alpha", []string{"11th"})
	backend.failNext = "student already assigned elsewhere"

	assigner := NewAssigner(client, dir, noopRecorder())
	err := assigner.AssignStudents(context.Background(), batchID, []string{"s1"})
	var apiErr errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "student already assigned elsewhere" {
		t.Fatalf("expected server message verbatim, got %q", apiErr.Message)
	}
}

func TestAvailableForDialogExcludesMembers(t *testing.T) {
	all := newFakeBackend().allByRole("student")
	current := all[:2]

	out := AvailableForDialog(all, current)
	if len(out) != len(all)-2 {
		t.Fatalf("expected %d selectable users, got %d", len(all)-2, len(out))
	}
	for _, u := range out {
		for _, member := range current {
			if u.ID == member.ID {
				t.Fatalf("member %s leaked into the dialog pool", u.ID)
			}
		}
	}
}
