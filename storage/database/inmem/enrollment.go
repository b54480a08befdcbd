package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/invitation"
)

type EnrollmentRepository struct {
	db *DB

	// DenyDirectInsert simulates an access policy that blocks direct inserts,
	// forcing the coordinator onto the atomic fallback procedure.
	DenyDirectInsert bool
}

var _ enrollment.Repository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (repo *EnrollmentRepository) GetEnrollment(ctx context.Context, classroomID, studentID string) (enrollment.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	if enr, ok := repo.db.enrollment.table[enrollmentKey(classroomID, studentID)]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *EnrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) error {
	if repo.DenyDirectInsert {
		return enrollment.ErrPermissionDenied
	}

	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	key := enrollmentKey(enr.ClassroomID, enr.StudentID)
	if _, ok := repo.db.enrollment.table[key]; ok {
		return enrollment.ErrDuplicate
	}
	repo.db.enrollment.table[key] = &enr
	return nil
}

// EnrollStudent performs the lookup-and-insert as one unit of work under the
// table lock, mirroring the server-side enroll_student procedure.
func (repo *EnrollmentRepository) EnrollStudent(ctx context.Context, invitationToken, studentID string) (bool, error) {
	inv, err := repo.findLiveInvitation(invitationToken)
	if err != nil {
		return false, err
	}

	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	key := enrollmentKey(inv.ClassroomID, studentID)
	if _, ok := repo.db.enrollment.table[key]; ok {
		return false, nil
	}
	repo.db.enrollment.table[key] = &enrollment.Enrollment{
		ClassroomID: inv.ClassroomID,
		StudentID:   studentID,
		CreatedAt:   time.Now().UTC(),
	}
	return true, nil
}

func (repo *EnrollmentRepository) findLiveInvitation(token string) (invitation.Invitation, error) {
	repo.db.invitation.RLock()
	defer repo.db.invitation.RUnlock()

	now := time.Now().UTC()
	for _, inv := range repo.db.invitation.table {
		if inv.Status == invitation.StatusPending && !inv.IsExpired(now) && strings.EqualFold(inv.Token, token) {
			return *inv, nil
		}
	}
	return invitation.Invitation{}, invitation.ErrCodeNotFound
}
