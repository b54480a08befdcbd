package classroom

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotFound = errors.New("classroom not found")
)

type (
	Repository interface {
		GetClassroomByID(ctx context.Context, id string) (Classroom, error)
		QueryClassroomsByTeacher(ctx context.Context, teacherID string) ([]Classroom, error)
	}

	Service interface {
		GetByID(ctx context.Context, id string) (Classroom, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Classroom, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetByID(ctx context.Context, id string) (Classroom, error) {
	return svc.repo.GetClassroomByID(ctx, id)
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Classroom, error) {
	return svc.repo.QueryClassroomsByTeacher(ctx, teacherID)
}
