package roster

import (
	stderrors "errors"
	"reflect"
	"testing"

	"coaching-admin-client/pkg/errors"

	"github.com/xuri/excelize/v2"
)

func buildRoster(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseRoster(t *testing.T) {
	data := buildRoster(t, [][]interface{}{
		{"student_id", "classes", "subjects"},
		{"s-100", "11th, 12th", "Physics,Chemistry"},
		{"s-101", "", "Maths"},
		{"s-102", "11th", ""},
	})

	parser := NewParser()
	assignments, err := parser.Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assignments))
	}

	first := assignments[0]
	if first.StudentID != "s-100" {
		t.Fatalf("unexpected student id %q", first.StudentID)
	}
	if !reflect.DeepEqual(first.AssignedClasses, []string{"11th", "12th"}) {
		t.Fatalf("expected trimmed class list, got %v", first.AssignedClasses)
	}
	if !reflect.DeepEqual(first.AssignedSubjects, []string{"Physics", "Chemistry"}) {
		t.Fatalf("unexpected subjects %v", first.AssignedSubjects)
	}
	if assignments[1].AssignedClasses != nil {
		t.Fatalf("expected nil classes for empty cell, got %v", assignments[1].AssignedClasses)
	}
}

func TestParseSkipsBlankRows(t *testing.T) {
	data := buildRoster(t, [][]interface{}{
		{"student_id"},
		{"s-100"},
		{""},
		{"s-101"},
	})

	assignments, err := NewParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected blank row skipped, got %d assignments", len(assignments))
	}
}

func TestParseRejectsDuplicateStudent(t *testing.T) {
	data := buildRoster(t, [][]interface{}{
		{"student_id"},
		{"s-100"},
		{"s-100"},
	})

	_, err := NewParser().Parse(data)
	var vErr errors.ValidationError
	if !stderrors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "student_id" {
		t.Fatalf("unexpected field %q", vErr.Field)
	}
}

func TestParseRejectsMalformedStudentID(t *testing.T) {
	data := buildRoster(t, [][]interface{}{
		{"student_id"},
		{"s 100"},
	})

	_, err := NewParser().Parse(data)
	var vErr errors.ValidationError
	if !stderrors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseRequiresStudentIDColumn(t *testing.T) {
	data := buildRoster(t, [][]interface{}{
		{"name", "classes"},
		{"someone", "11th"},
	})

	if _, err := NewParser().Parse(data); err == nil {
		t.Fatal("expected missing-column error")
	}
}

func TestParseRejectsEmptyRoster(t *testing.T) {
	headerOnly := buildRoster(t, [][]interface{}{
		{"student_id"},
	})
	if _, err := NewParser().Parse(headerOnly); !stderrors.Is(err, errors.ErrInvalidRoster) {
		t.Fatalf("expected ErrInvalidRoster, got %v", err)
	}

	allBlank := buildRoster(t, [][]interface{}{
		{"student_id"},
		{""},
		{""},
	})
	if _, err := NewParser().Parse(allBlank); !stderrors.Is(err, errors.ErrInvalidRoster) {
		t.Fatalf("expected ErrInvalidRoster, got %v", err)
	}
}

func TestParseRejectsGarbageBytes(t *testing.T) {
	if _, err := NewParser().Parse([]byte("not a spreadsheet")); err == nil {
		t.Fatal("expected open error for non-xlsx input")
	}
}
