package rest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

func TestBuildMultipartRoundTrip(t *testing.T) {
	fields := map[string]string{
		"title":     "Weekly Physics Test",
		"fullMarks": "100",
	}
	files := []FilePart{
		{Field: "questionPdf", Name: "questions.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 q")},
	}

	body, contentType, err := BuildMultipart(fields, files)
	if err != nil {
		t.Fatalf("BuildMultipart() failed: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q: %v", contentType, err)
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart body: %v", err)
	}
	defer form.RemoveAll()

	if got := form.Value["title"]; len(got) != 1 || got[0] != "Weekly Physics Test" {
		t.Fatalf("title field lost: %v", got)
	}
	if got := form.Value["fullMarks"]; len(got) != 1 || got[0] != "100" {
		t.Fatalf("fullMarks field lost: %v", got)
	}

	pdfs := form.File["questionPdf"]
	if len(pdfs) != 1 {
		t.Fatalf("expected one questionPdf part, got %d", len(pdfs))
	}
	if pdfs[0].Filename != "questions.pdf" {
		t.Fatalf("expected filename questions.pdf, got %q", pdfs[0].Filename)
	}
	if got := pdfs[0].Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", got)
	}

	f, err := pdfs[0].Open()
	if err != nil {
		t.Fatalf("failed to open part: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "%PDF-1.4 q" {
		t.Fatalf("part data corrupted: %q", data)
	}
}

func TestBuildMultipartNoFiles(t *testing.T) {
	body, contentType, err := BuildMultipart(map[string]string{"k": "v"}, nil)
	if err != nil {
		t.Fatalf("BuildMultipart() failed: %v", err)
	}
	if len(body) == 0 || contentType == "" {
		t.Fatal("expected a non-empty body and content type")
	}
}

func TestBuildMultipartDefaultsContentType(t *testing.T) {
	body, contentType, err := BuildMultipart(nil, []FilePart{{Field: "f", Name: "a.bin", Data: []byte{1}}})
	if err != nil {
		t.Fatalf("BuildMultipart() failed: %v", err)
	}

	_, params, _ := mime.ParseMediaType(contentType)
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("failed to read part: %v", err)
	}
	if got := part.Header.Get("Content-Type"); got != "application/octet-stream" {
		t.Fatalf("expected octet-stream default, got %q", got)
	}
}
