package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r studentRow) toCore() student.StudentProfile {
	return student.StudentProfile{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func (repo *studentRepository) get(ctx context.Context, query, arg string) (student.StudentProfile, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return student.StudentProfile{}, student.ErrNotFound
		}
		return student.StudentProfile{}, errors.Wrap(err, "getting student profile")
	}
	return row.toCore(), nil
}

func (repo *studentRepository) GetProfileByID(ctx context.Context, id string) (student.StudentProfile, error) {
	return repo.get(ctx, `SELECT id, user_id, name, created_at FROM student_profile WHERE id = $1`, id)
}

func (repo *studentRepository) GetProfileByUserID(ctx context.Context, userID string) (student.StudentProfile, error) {
	return repo.get(ctx, `SELECT id, user_id, name, created_at FROM student_profile WHERE user_id = $1`, userID)
}

func (repo *studentRepository) CreateProfile(ctx context.Context, prof student.StudentProfile) (student.StudentProfile, error) {
	if prof.ID == "" {
		prof.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student_profile (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		prof.ID, prof.UserID, prof.Name, prof.CreatedAt)
	if err != nil {
		return student.StudentProfile{}, errors.Wrap(err, "inserting student profile")
	}
	return prof, nil
}
