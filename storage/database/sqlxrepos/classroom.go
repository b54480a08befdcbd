package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/classroom"
)

type classroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(db *sqlx.DB) *classroomRepository {
	return &classroomRepository{db: db}
}

type classroomRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	TeacherID string    `db:"teacher_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r classroomRow) toCore() classroom.Classroom {
	return classroom.Classroom{
		ID:        r.ID,
		Name:      r.Name,
		TeacherID: r.TeacherID,
		CreatedAt: r.CreatedAt,
	}
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	var row classroomRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, teacher_id, created_at FROM classroom WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return classroom.Classroom{}, classroom.ErrNotFound
		}
		return classroom.Classroom{}, errors.Wrap(err, "getting classroom")
	}
	return row.toCore(), nil
}

func (repo *classroomRepository) QueryClassroomsByTeacher(ctx context.Context, teacherID string) ([]classroom.Classroom, error) {
	var rows []classroomRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, teacher_id, created_at FROM classroom WHERE teacher_id = $1 ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	classrooms := make([]classroom.Classroom, 0, len(rows))
	for _, row := range rows {
		classrooms = append(classrooms, row.toCore())
	}
	return classrooms, nil
}
