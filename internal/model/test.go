package model

import "time"

// StudentRecord tracks one student's participation in a test. Score and
// the timestamps stay nil until the student submits and the teacher
// evaluates.
type StudentRecord struct {
	StudentID   string     `json:"studentId"`
	Score       *float64   `json:"score"`
	SubmittedAt *time.Time `json:"submittedAt"`
	EvaluatedAt *time.Time `json:"evaluatedAt"`
}

// AttachmentMeta describes a stored question/answer PDF as the server
// reports it. On edit, omitting the multipart file part keeps the stored
// attachment untouched.
type AttachmentMeta struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

type Test struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	FullMarks        float64         `json:"fullMarks"`
	BatchID          string          `json:"batchId"`
	Class            string          `json:"class"`
	Subject          string          `json:"subject"`
	AssignedStudents []StudentRecord `json:"assignedStudents,omitempty"`
	Instructions     string          `json:"instructions,omitempty"`
	DueDate          string          `json:"dueDate,omitempty"` // YYYY-MM-DD
	Active           bool            `json:"active"`
	QuestionPDF      *AttachmentMeta `json:"questionPdf,omitempty"`
	AnswerPDF        *AttachmentMeta `json:"answerPdf,omitempty"`
}

// DPP is a daily practice problem set: a question/answer PDF pair handed
// to a batch+class+subject, with no per-student score tracking.
type DPP struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	BatchID     string          `json:"batchId"`
	Class       string          `json:"class"`
	Subject     string          `json:"subject"`
	Active      bool            `json:"active"`
	QuestionPDF *AttachmentMeta `json:"questionPdf,omitempty"`
	AnswerPDF   *AttachmentMeta `json:"answerPdf,omitempty"`
}
