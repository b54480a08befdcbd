package invitation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

// Status is the lifecycle state of an Invitation.
// Only two transitions exist: pending -> accepted (on first enrollment that
// used a single-recipient invite) and pending -> expired (time-derived, never
// stored).
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusExpired)
}

type Invitation struct {
	ID          string    `json:"id"`
	ClassroomID string    `json:"classroom_id"`
	Token       string    `json:"token"`
	Status      Status    `json:"status"`
	Email       string    `json:"email,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"` // UTC
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// IsExpired reports whether the invitation has lapsed at the given instant.
func (inv Invitation) IsExpired(now time.Time) bool {
	return !inv.ExpiresAt.After(now)
}

// IsGeneral reports whether this is a reusable class code rather than a
// single-recipient email invite. General codes carry the sentinel email.
func (inv Invitation) IsGeneral(sentinelEmail string) bool {
	return inv.Email == "" || inv.Email == sentinelEmail
}

// EffectiveStatus derives the externally visible status; a pending invitation
// past its expiry reads as expired without any record mutation.
func (inv Invitation) EffectiveStatus(now time.Time) Status {
	if inv.Status == StatusPending && inv.IsExpired(now) {
		return StatusExpired
	}
	return inv.Status
}

// NewInvitation contains information needed to issue an Invitation.
// An empty Email produces a durable, shareable class code; a real email
// produces a short-lived single-recipient invite.
type NewInvitation struct {
	ClassroomID string `json:"classroom_id" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (ni *NewInvitation) Validate(validate *validator.Validate) error {
	ni.ClassroomID = core.CleanString(ni.ClassroomID)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	return validate.Struct(ni)
}
