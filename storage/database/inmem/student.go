package inmemdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/student"
)

var errProfileExists = errors.New("a profile for this user already exists")

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetProfileByID(ctx context.Context, id string) (student.StudentProfile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.table[id]; ok {
		return *prof, nil
	}
	return student.StudentProfile{}, student.ErrNotFound
}

func (repo *studentRepository) GetProfileByUserID(ctx context.Context, userID string) (student.StudentProfile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, prof := range repo.db.table {
		if prof.UserID == userID {
			return *prof, nil
		}
	}
	return student.StudentProfile{}, student.ErrNotFound
}

func (repo *studentRepository) CreateProfile(ctx context.Context, prof student.StudentProfile) (student.StudentProfile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, p := range repo.db.table {
		if p.UserID == prof.UserID {
			return student.StudentProfile{}, errProfileExists
		}
	}
	if prof.ID == "" {
		prof.ID = uuid.New().String()
	}
	repo.db.table[prof.ID] = &prof
	return prof, nil
}
