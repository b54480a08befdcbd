package student

import "time"

// StudentProfile links an authenticated user to their student identity.
// It is created lazily on the first join attempt.
type StudentProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
