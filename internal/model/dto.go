package model

import "encoding/json"

// Envelope is the uniform response shape of the backend. success=false is
// an application-level failure even on a 200.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// BatchPayload is the full form body sent on batch create/update.
type BatchPayload struct {
	Name        string    `json:"batchName"`
	Classes     []string  `json:"classes"`
	Category    Category  `json:"category"`
	Subjects    []Subject `json:"subjects"`
	StudentIDs  []string  `json:"students"`
	TeacherIDs  []string  `json:"teachers"`
	Schedule    string    `json:"schedule"`
	Description string    `json:"description"`
	Active      bool      `json:"isActive"`
}

// AssignmentRequest carries user ids for a batch assign/remove call. The
// server applies the whole set and reports the outcome in one envelope.
type AssignmentRequest struct {
	UserIDs []string `json:"userIds"`
}

// StudentAssignment is one roster row for bulk assignment: a student plus
// the classes and subjects they enroll into inside the target batch.
type StudentAssignment struct {
	StudentID        string   `json:"studentId"`
	AssignedClasses  []string `json:"assignedClasses,omitempty"`
	AssignedSubjects []string `json:"assignedSubjects,omitempty"`
}

type BulkAssignmentRequest struct {
	Assignments []StudentAssignment `json:"assignments"`
}

// TestAssignmentRequest replaces the complete assigned-student list of a
// test. An empty slice unassigns everyone.
type TestAssignmentRequest struct {
	StudentIDs []string `json:"assignedStudents"`
}
