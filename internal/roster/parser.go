package roster

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"coaching-admin-client/internal/model"
	"coaching-admin-client/pkg/errors"

	"github.com/xuri/excelize/v2"
)

var studentIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// Parser reads an enrollment roster spreadsheet into assignment tuples.
// Required columns: student_id; optional: classes, subjects, where cell
// values are comma-separated lists.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(data []byte) ([]model.StudentAssignment, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidRoster
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 { // Header + at least one data row
		return nil, errors.ErrInvalidRoster
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := columnMap["student_id"]; !ok {
		return nil, fmt.Errorf("missing required column: student_id")
	}

	seen := make(map[string]bool)
	var assignments []model.StudentAssignment
	for i, row := range rows[1:] {
		assignment, err := p.parseRow(row, columnMap, i+2)
		if err != nil {
			return nil, err
		}
		if assignment == nil {
			continue // Blank row
		}
		if seen[assignment.StudentID] {
			return nil, errors.ValidationError{
				Field:   "student_id",
				Value:   assignment.StudentID,
				Message: fmt.Sprintf("duplicate student in row %d", i+2),
			}
		}
		seen[assignment.StudentID] = true
		assignments = append(assignments, *assignment)
	}

	if len(assignments) == 0 {
		return nil, errors.ErrInvalidRoster
	}
	return assignments, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int, rowNum int) (*model.StudentAssignment, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	studentID := getValue("student_id")
	if studentID == "" {
		return nil, nil
	}
	if !studentIDRegex.MatchString(studentID) {
		return nil, errors.ValidationError{
			Field:   "student_id",
			Value:   studentID,
			Message: fmt.Sprintf("invalid student id in row %d", rowNum),
		}
	}

	return &model.StudentAssignment{
		StudentID:        studentID,
		AssignedClasses:  splitList(getValue("classes")),
		AssignedSubjects: splitList(getValue("subjects")),
	}, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
