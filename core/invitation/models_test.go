package invitation

import (
	"testing"
	"time"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusPending, false},
		{StatusAccepted, StatusExpired, false},
		{StatusExpired, StatusAccepted, false},
		{StatusExpired, StatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s.CanTransition(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestInvitation_EffectiveStatus(t *testing.T) {
	now := time.Date(2021, 9, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		inv  Invitation
		want Status
	}{
		{name: "pending, live", inv: Invitation{Status: StatusPending, ExpiresAt: now.Add(time.Hour)}, want: StatusPending},
		{name: "pending, lapsed", inv: Invitation{Status: StatusPending, ExpiresAt: now.Add(-time.Hour)}, want: StatusExpired},
		{name: "pending, expiry boundary", inv: Invitation{Status: StatusPending, ExpiresAt: now}, want: StatusExpired},
		{name: "accepted stays accepted past expiry", inv: Invitation{Status: StatusAccepted, ExpiresAt: now.Add(-time.Hour)}, want: StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.EffectiveStatus(now); got != tt.want {
				t.Errorf("EffectiveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvitation_IsGeneral(t *testing.T) {
	sentinel := "invite@darasa.app"

	if !(Invitation{Email: ""}).IsGeneral(sentinel) {
		t.Error("IsGeneral() = false for empty email, want true")
	}
	if !(Invitation{Email: sentinel}).IsGeneral(sentinel) {
		t.Error("IsGeneral() = false for sentinel email, want true")
	}
	if (Invitation{Email: "jane@test.cd"}).IsGeneral(sentinel) {
		t.Error("IsGeneral() = true for a real recipient, want false")
	}
}
