package testctl

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"coaching-admin-client/internal/journal"
	"coaching-admin-client/pkg/errors"
)

func TestDPPValidationBlocksNetwork(t *testing.T) {
	backend := &capturingBackend{}
	client := newTestClient(t, backend)
	ctrl := NewDPPController(client, NewResolver(nil), journal.Noop{})
	b := physicsBatch()

	cases := []struct {
		name  string
		form  DPPForm
		field string
	}{
		{"blank title", DPPForm{Class: "11th", Subject: "Physics"}, "title"},
		{"whitespace title", DPPForm{Title: "   ", Class: "11th", Subject: "Physics"}, "title"},
		{"foreign class", DPPForm{Title: "DPP 1", Class: "9th", Subject: "Physics"}, "class"},
		{"unoffered subject", DPPForm{Title: "DPP 1", Class: "11th", Subject: "Biology"}, "subject"},
	}

	for _, tc := range cases {
		err := ctrl.Create(context.Background(), b, tc.form)
		var vErr errors.ValidationError
		if !stderrors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if vErr.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q", tc.name, tc.field, vErr.Field)
		}
	}

	if atomic.LoadInt32(&backend.requests) != 0 {
		t.Fatalf("invalid forms must not reach the network, saw %d requests", backend.requests)
	}
}

func TestDPPCreateAndUpdate(t *testing.T) {
	backend := &capturingBackend{}
	client := newTestClient(t, backend)
	ctrl := NewDPPController(client, NewResolver(nil), journal.Noop{})
	b := physicsBatch()

	form := DPPForm{Title: "DPP 1", Class: "11th", Subject: "Physics", Active: true}
	if err := ctrl.Create(context.Background(), b, form); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if backend.lastReq.Method != http.MethodPost || backend.lastReq.URL.Path != "/dpps" {
		t.Fatalf("unexpected request %s %s", backend.lastReq.Method, backend.lastReq.URL.Path)
	}
	if !strings.HasPrefix(backend.lastReq.Header.Get("Content-Type"), "multipart/form-data") {
		t.Fatal("expected multipart submit")
	}
	for _, needle := range []string{"DPP 1", "batchId", "b1", "isActive"} {
		if !strings.Contains(string(backend.lastBody), needle) {
			t.Fatalf("multipart body missing %q", needle)
		}
	}

	if err := ctrl.Update(context.Background(), b, "d7", form); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if backend.lastReq.Method != http.MethodPut || backend.lastReq.URL.Path != "/dpps/d7" {
		t.Fatalf("unexpected request %s %s", backend.lastReq.Method, backend.lastReq.URL.Path)
	}
}
