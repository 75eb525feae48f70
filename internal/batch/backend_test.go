package batch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/credentials"
	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"
)

// fakeBackend is an in-memory stand-in for the coaching backend. It
// keeps the one-batch-per-student invariant so the partition properties
// can be asserted end to end.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int
	batches  []*model.Batch
	users    map[string]model.User
	requests int32
	failNext string // next mutating call answers success=false with this message
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{users: make(map[string]model.User)}
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("s%d", i)
		f.users[id] = model.User{ID: id, Name: "Student " + id, Role: model.RoleStudent}
	}
	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("t%d", i)
		f.users[id] = model.User{ID: id, Name: "Teacher " + id, Role: model.RoleTeacher}
	}
	return f
}

func (f *fakeBackend) requestCount() int32 {
	return atomic.LoadInt32(&f.requests)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.requests, 1)
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 || parts[0] != "batches" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet && f.failNext != "" {
		msg := f.failNext
		f.failNext = ""
		writeFailure(w, msg)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeEnvelope(w, f.batchList())
	case len(parts) == 1 && r.Method == http.MethodPost:
		f.createBatch(w, r)
	case len(parts) == 2 && parts[1] == "eligible-students":
		writeEnvelope(w, f.eligible(model.RoleStudent))
	case len(parts) == 2 && parts[1] == "eligible-teachers":
		writeEnvelope(w, f.eligible(model.RoleTeacher))
	case len(parts) == 2 && parts[1] == "all-teachers":
		writeEnvelope(w, f.allByRole(model.RoleTeacher))
	case len(parts) == 2 && r.Method == http.MethodPut:
		f.updateBatch(w, r, parts[1])
	case len(parts) == 2 && r.Method == http.MethodDelete:
		f.deleteBatch(w, parts[1])
	case len(parts) == 3 && parts[2] == "available-students":
		f.available(w, parts[1], model.RoleStudent)
	case len(parts) == 3 && parts[2] == "available-teachers":
		f.available(w, parts[1], model.RoleTeacher)
	case len(parts) == 3:
		f.mutateMembers(w, r, parts[1], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) batchList() []model.Batch {
	out := make([]model.Batch, 0, len(f.batches))
	for _, b := range f.batches {
		out = append(out, *b)
	}
	return out
}

func (f *fakeBackend) findBatch(id string) *model.Batch {
	for _, b := range f.batches {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBackend) assigned(userID string) bool {
	for _, b := range f.batches {
		for _, u := range append(b.Students, b.Teachers...) {
			if u.ID == userID {
				return true
			}
		}
	}
	return false
}

func (f *fakeBackend) eligible(role model.Role) []model.User {
	var out []model.User
	for _, u := range f.allByRole(role) {
		if !f.assigned(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

func (f *fakeBackend) allByRole(role model.Role) []model.User {
	var out []model.User
	for i := 1; i <= len(f.users); i++ {
		for _, prefix := range []string{"s", "t"} {
			if u, ok := f.users[fmt.Sprintf("%s%d", prefix, i)]; ok && u.Role == role {
				out = append(out, u)
			}
		}
	}
	return out
}

func (f *fakeBackend) createBatch(w http.ResponseWriter, r *http.Request) {
	var payload model.BatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, "bad payload")
		return
	}
	f.nextID++
	b := &model.Batch{
		ID:       fmt.Sprintf("b%d", f.nextID),
		Name:     payload.Name,
		Classes:  payload.Classes,
		Category: payload.Category,
		Subjects: payload.Subjects,
		Active:   payload.Active,
	}
	for _, id := range payload.StudentIDs {
		if u, ok := f.users[id]; ok && !f.assigned(id) {
			b.Students = append(b.Students, u)
		}
	}
	for _, id := range payload.TeacherIDs {
		if u, ok := f.users[id]; ok {
			b.Teachers = append(b.Teachers, u)
		}
	}
	f.batches = append(f.batches, b)
	writeEnvelope(w, *b)
}

func (f *fakeBackend) updateBatch(w http.ResponseWriter, r *http.Request, id string) {
	b := f.findBatch(id)
	if b == nil {
		writeFailure(w, "batch not found")
		return
	}
	var payload model.BatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, "bad payload")
		return
	}
	b.Name = payload.Name
	b.Classes = payload.Classes
	b.Category = payload.Category
	b.Subjects = payload.Subjects
	b.Active = payload.Active
	writeEnvelope(w, *b)
}

func (f *fakeBackend) deleteBatch(w http.ResponseWriter, id string) {
	for i, b := range f.batches {
		if b.ID == id {
			f.batches = append(f.batches[:i], f.batches[i+1:]...)
			writeEnvelope(w, nil)
			return
		}
	}
	writeFailure(w, "batch not found")
}

func (f *fakeBackend) available(w http.ResponseWriter, id string, role model.Role) {
	b := f.findBatch(id)
	if b == nil {
		writeFailure(w, "batch not found")
		return
	}
	out := f.eligible(role)
	if role == model.RoleStudent {
		out = append(out, b.Students...)
	} else {
		out = append(out, b.Teachers...)
	}
	writeEnvelope(w, out)
}

func (f *fakeBackend) mutateMembers(w http.ResponseWriter, r *http.Request, id, action string) {
	b := f.findBatch(id)
	if b == nil {
		writeFailure(w, "batch not found")
		return
	}
	var req model.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "bad payload")
		return
	}

	switch action {
	case "assign-students":
		for _, uid := range req.UserIDs {
			if u, ok := f.users[uid]; ok && !f.assigned(uid) {
				b.Students = append(b.Students, u)
			}
		}
	case "assign-teachers":
		for _, uid := range req.UserIDs {
			if u, ok := f.users[uid]; ok {
				b.Teachers = append(b.Teachers, u)
			}
		}
	case "remove-students":
		b.Students = withoutIDs(b.Students, req.UserIDs)
	case "remove-teachers":
		b.Teachers = withoutIDs(b.Teachers, req.UserIDs)
	default:
		http.NotFound(w, r)
		return
	}
	writeEnvelope(w, *b)
}

func withoutIDs(users []model.User, ids []string) []model.User {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var out []model.User
	for _, u := range users {
		if !drop[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	resp := map[string]interface{}{"success": true}
	if data != nil {
		resp["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeFailure(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": message})
}

func newTestClient(t *testing.T, backend http.Handler) (*rest.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{
			BaseURL:        srv.URL,
			RequestTimeout: 5 * time.Second,
			RetryAttempts:  1,
			RetryDelay:     time.Millisecond,
			RetryMaxDelay:  time.Millisecond,
		},
	}
	return rest.NewClient(cfg, credentials.Static{Token: "test-token"}), srv
}

func userIDs(users []model.User) []string {
	return model.UserIDs(users)
}

func noopRecorder() journal.Recorder {
	return journal.Noop{}
}
