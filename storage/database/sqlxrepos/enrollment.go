package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/enrollment"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

type enrollmentRow struct {
	ClassroomID string    `db:"classroom_id"`
	StudentID   string    `db:"student_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// trapPQError maps well-known postgres error codes to the coordinator's
// sentinels so it can tell a lost race from a policy rejection.
func trapPQError(err error) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			return enrollment.ErrDuplicate
		case "42501": // insufficient_privilege
			return enrollment.ErrPermissionDenied
		}
	}
	return err
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, classroomID, studentID string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT classroom_id, student_id, created_at FROM enrollment
		 WHERE classroom_id = $1 AND student_id = $2`, classroomID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return enrollment.Enrollment{}, enrollment.ErrNotFound
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return enrollment.Enrollment{
		ClassroomID: row.ClassroomID,
		StudentID:   row.StudentID,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO enrollment (classroom_id, student_id, created_at) VALUES ($1, $2, $3)`,
		enr.ClassroomID, enr.StudentID, enr.CreatedAt)
	if err != nil {
		if trapped := trapPQError(err); trapped != err {
			return trapped
		}
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

// EnrollStudent calls the enroll_student stored procedure, which runs the
// existence-check-and-insert atomically with definer rights, bypassing the
// caller-side insert restriction.
func (repo *enrollmentRepository) EnrollStudent(ctx context.Context, invitationToken, studentID string) (bool, error) {
	var enrolled bool
	err := repo.db.GetContext(ctx, &enrolled,
		`SELECT enroll_student($1, $2)`, invitationToken, studentID)
	if err != nil {
		return false, errors.Wrap(err, "calling enroll_student")
	}
	return enrolled, nil
}
