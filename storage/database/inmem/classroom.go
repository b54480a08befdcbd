package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/classroom"
)

type classroomRepository struct {
	db *classroomTable
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(db *DB) *classroomRepository {
	return &classroomRepository{db: db.classroom}
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) QueryClassroomsByTeacher(ctx context.Context, teacherID string) ([]classroom.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classrooms := make([]classroom.Classroom, 0)
	for _, cls := range repo.db.table {
		if cls.TeacherID == teacherID {
			classrooms = append(classrooms, *cls)
		}
	}
	return classrooms, nil
}

// CreateClassroom seeds a classroom; roster flows own creation in production,
// so this is not part of classroom.Repository.
func (repo *classroomRepository) CreateClassroom(ctx context.Context, cls classroom.Classroom) (classroom.Classroom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if cls.ID == "" {
		cls.ID = uuid.New().String()
	}
	repo.db.table[cls.ID] = &cls
	return cls, nil
}
