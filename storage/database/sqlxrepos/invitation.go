package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/invitation"
)

type invitationRepository struct {
	db *sqlx.DB
}

var _ invitation.Repository = (*invitationRepository)(nil)

func NewInvitationRepository(db *sqlx.DB) *invitationRepository {
	return &invitationRepository{db: db}
}

type invitationRow struct {
	ID          string    `db:"id"`
	ClassroomID string    `db:"classroom_id"`
	Token       string    `db:"invitation_token"`
	Status      string    `db:"status"`
	Email       string    `db:"email"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
	AcceptedAt  null.Time `db:"accepted_at"`
}

func (r invitationRow) toCore() invitation.Invitation {
	return invitation.Invitation{
		ID:          r.ID,
		ClassroomID: r.ClassroomID,
		Token:       r.Token,
		Status:      invitation.Status(r.Status),
		Email:       r.Email,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
	}
}

const invitationColumns = `id, classroom_id, invitation_token, status, email, expires_at, created_at, accepted_at`

func (repo *invitationRepository) selectPending(ctx context.Context, where string, args ...interface{}) ([]invitation.Invitation, error) {
	var rows []invitationRow
	query := `SELECT ` + invitationColumns + ` FROM invitation WHERE status = 'pending' AND ` + where +
		` ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying invitations")
	}
	invs := make([]invitation.Invitation, 0, len(rows))
	for _, row := range rows {
		invs = append(invs, row.toCore())
	}
	return invs, nil
}

func (repo *invitationRepository) CreateInvitation(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO invitation (id, classroom_id, invitation_token, status, email, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.ClassroomID, inv.Token, string(inv.Status), inv.Email, inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		return invitation.Invitation{}, errors.Wrap(err, "inserting invitation")
	}
	return inv, nil
}

func (repo *invitationRepository) GetInvitationByID(ctx context.Context, id string) (invitation.Invitation, error) {
	var row invitationRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+invitationColumns+` FROM invitation WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return invitation.Invitation{}, invitation.ErrNotFound
		}
		return invitation.Invitation{}, errors.Wrap(err, "getting invitation")
	}
	return row.toCore(), nil
}

func (repo *invitationRepository) FindPendingByToken(ctx context.Context, token string) ([]invitation.Invitation, error) {
	return repo.selectPending(ctx, `invitation_token = $1`, token)
}

func (repo *invitationRepository) FindPendingByTokenFold(ctx context.Context, token string) ([]invitation.Invitation, error) {
	return repo.selectPending(ctx, `lower(invitation_token) = lower($1)`, token)
}

func (repo *invitationRepository) SearchPendingByTokenMatch(ctx context.Context, partial string) ([]invitation.Invitation, error) {
	return repo.selectPending(ctx, `invitation_token ILIKE '%' || $1 || '%'`, partial)
}

func (repo *invitationRepository) QueryClassroomInvitations(ctx context.Context, classroomID string) ([]invitation.Invitation, error) {
	var rows []invitationRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+invitationColumns+` FROM invitation WHERE classroom_id = $1
		 ORDER BY (status = 'pending') DESC, created_at DESC`, classroomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classroom invitations")
	}
	invs := make([]invitation.Invitation, 0, len(rows))
	for _, row := range rows {
		invs = append(invs, row.toCore())
	}
	return invs, nil
}

func (repo *invitationRepository) UpdateInvitationStatus(ctx context.Context, id string, status invitation.Status) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE invitation SET status = $2, accepted_at = $3 WHERE id = $1`,
		id, string(status), null.TimeFrom(time.Now().UTC()))
	if err != nil {
		return errors.Wrap(err, "updating invitation status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invitation.ErrNotFound
	}
	return nil
}
