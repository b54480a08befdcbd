package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/invitation"
)

type invitationRepository struct {
	db *invitationTable
}

var _ invitation.Repository = (*invitationRepository)(nil)

func NewInvitationRepository(db *DB) *invitationRepository {
	return &invitationRepository{db: db.invitation}
}

// pendingNewestFirst filters pending invitations matching pred, newest first.
func (repo *invitationRepository) pendingNewestFirst(pred func(inv invitation.Invitation) bool) []invitation.Invitation {
	invs := make([]invitation.Invitation, 0)
	for _, inv := range repo.db.table {
		if inv.Status == invitation.StatusPending && pred(*inv) {
			invs = append(invs, *inv)
		}
	}
	sort.Slice(invs, func(i, j int) bool { return invs[i].CreatedAt.After(invs[j].CreatedAt) })
	return invs
}

func (repo *invitationRepository) CreateInvitation(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	repo.db.table[inv.ID] = &inv
	return inv, nil
}

func (repo *invitationRepository) GetInvitationByID(ctx context.Context, id string) (invitation.Invitation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inv, ok := repo.db.table[id]; ok {
		return *inv, nil
	}
	return invitation.Invitation{}, invitation.ErrNotFound
}

func (repo *invitationRepository) FindPendingByToken(ctx context.Context, token string) ([]invitation.Invitation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.pendingNewestFirst(func(inv invitation.Invitation) bool {
		return inv.Token == token
	}), nil
}

func (repo *invitationRepository) FindPendingByTokenFold(ctx context.Context, token string) ([]invitation.Invitation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.pendingNewestFirst(func(inv invitation.Invitation) bool {
		return strings.EqualFold(inv.Token, token)
	}), nil
}

func (repo *invitationRepository) SearchPendingByTokenMatch(ctx context.Context, partial string) ([]invitation.Invitation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	upper := strings.ToUpper(partial)
	return repo.pendingNewestFirst(func(inv invitation.Invitation) bool {
		return strings.Contains(strings.ToUpper(inv.Token), upper)
	}), nil
}

func (repo *invitationRepository) QueryClassroomInvitations(ctx context.Context, classroomID string) ([]invitation.Invitation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	invs := make([]invitation.Invitation, 0)
	for _, inv := range repo.db.table {
		if inv.ClassroomID == classroomID {
			invs = append(invs, *inv)
		}
	}
	// pending first, then newest first
	sort.Slice(invs, func(i, j int) bool {
		if (invs[i].Status == invitation.StatusPending) != (invs[j].Status == invitation.StatusPending) {
			return invs[i].Status == invitation.StatusPending
		}
		return invs[i].CreatedAt.After(invs[j].CreatedAt)
	})
	return invs, nil
}

func (repo *invitationRepository) UpdateInvitationStatus(ctx context.Context, id string, status invitation.Status) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	inv, ok := repo.db.table[id]
	if !ok {
		return invitation.ErrNotFound
	}
	inv.Status = status
	return nil
}
