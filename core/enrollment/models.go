package enrollment

import (
	"time"

	"github.com/darasahq/darasa/core/classroom"
)

// Enrollment is the durable membership record: one row per
// (classroom, student) pair, created exactly once per successful join.
type Enrollment struct {
	ClassroomID string    `json:"classroom_id"`
	StudentID   string    `json:"student_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// JoinRequest carries one join attempt through the whole pipeline
// (normalize -> resolve -> provision -> enroll). Every entry point produces
// this same shape.
type JoinRequest struct {
	RawInput    string
	UserID      string
	StudentName string
}

// JoinResult reports the outcome of a join attempt. AlreadyMember is
// informational, not a failure.
type JoinResult struct {
	Classroom     classroom.Classroom `json:"classroom"`
	Code          string              `json:"code"`
	AlreadyMember bool                `json:"already_member"`
}
