package classroom

import "time"

// Classroom is read-only for the invitation subsystem; creation and
// deletion are owned by the roster flows.
type Classroom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
