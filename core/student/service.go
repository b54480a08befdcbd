package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound = errors.New("student profile not found")
	// ErrProvisionFailed is retryable; the profile precondition could not be met.
	ErrProvisionFailed = errors.New("could not provision student profile")
)

type (
	Repository interface {
		GetProfileByID(ctx context.Context, id string) (StudentProfile, error)
		GetProfileByUserID(ctx context.Context, userID string) (StudentProfile, error)
		CreateProfile(ctx context.Context, prof StudentProfile) (StudentProfile, error)
	}

	Service interface {
		GetByID(ctx context.Context, id string) (StudentProfile, error)
		// EnsureProfile returns the caller's student profile, creating it first if absent.
		EnsureProfile(ctx context.Context, userID, name string) (StudentProfile, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetByID(ctx context.Context, id string) (StudentProfile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

func (svc *service) EnsureProfile(ctx context.Context, userID, name string) (StudentProfile, error) {
	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err == nil {
		return prof, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return StudentProfile{}, errors.WithMessage(ErrProvisionFailed, err.Error())
	}

	prof = StudentProfile{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      core.CleanString(name),
		CreatedAt: time.Now().UTC(),
	}
	created, err := svc.repo.CreateProfile(ctx, prof)
	if err != nil {
		// a concurrent first join may have created it already
		if prof, gerr := svc.repo.GetProfileByUserID(ctx, userID); gerr == nil {
			return prof, nil
		}
		return StudentProfile{}, errors.WithMessage(ErrProvisionFailed, err.Error())
	}
	return created, nil
}
