package enrollment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/invitation"
	"github.com/darasahq/darasa/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("enrollment not found")
	// ErrDuplicate is returned by repositories when the (classroom, student)
	// pair already exists; the coordinator treats it as a benign lost race.
	ErrDuplicate = errors.New("enrollment already exists")
	// ErrPermissionDenied is returned by repositories when the caller's access
	// policy forbids a direct insert; the coordinator falls back to the atomic
	// server-side procedure.
	ErrPermissionDenied = errors.New("direct enrollment insert not permitted")
	// ErrJoinFailed is the actionable "could not join" failure, distinct from
	// the informational already-a-member outcome.
	ErrJoinFailed = errors.New("could not join classroom")
)

type (
	Repository interface {
		GetEnrollment(ctx context.Context, classroomID, studentID string) (Enrollment, error)
		// CreateEnrollment inserts the pair directly. ErrDuplicate signals the pair
		// exists; ErrPermissionDenied signals the access policy blocked the insert.
		CreateEnrollment(ctx context.Context, enr Enrollment) error
		// EnrollStudent is the atomic fallback procedure: existence-check-and-insert
		// as one server-side unit of work, authorized by the invitation token.
		// It reports false when the student was already a member.
		EnrollStudent(ctx context.Context, invitationToken, studentID string) (enrolled bool, err error)
	}

	Service interface {
		// Enroll performs an idempotent enrollment of a student into a classroom.
		// token and invitationID come from the resolution that authorized the join;
		// invitationID may be empty for classroom-id fallback resolutions.
		Enroll(ctx context.Context, studentID, classroomID, token, invitationID string) (alreadyMember bool, err error)
		// Join is the single consolidated resolve-then-enroll pipeline shared by
		// every entry point (manual code entry, URL-parameter auto-join, QR scan).
		Join(ctx context.Context, req JoinRequest) (JoinResult, error)
	}

	service struct {
		repo       Repository
		invSvc     invitation.Service
		studentSvc student.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, invSvc invitation.Service, studentSvc student.Service) Service {
	return &service{
		repo:       repo,
		invSvc:     invSvc,
		studentSvc: studentSvc,
	}
}

func (svc *service) Join(ctx context.Context, req JoinRequest) (JoinResult, error) {
	code, err := invitation.Normalize(req.RawInput)
	if err != nil {
		return JoinResult{}, err
	}

	res, err := svc.invSvc.Resolve(ctx, code)
	if err != nil {
		return JoinResult{}, err
	}

	prof, err := svc.studentSvc.EnsureProfile(ctx, req.UserID, req.StudentName)
	if err != nil {
		return JoinResult{}, err
	}

	already, err := svc.Enroll(ctx, prof.ID, res.ClassroomID, code, res.InvitationID)
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{
		Classroom:     res.Classroom,
		Code:          code,
		AlreadyMember: already,
	}, nil
}

func (svc *service) Enroll(ctx context.Context, studentID, classroomID, token, invitationID string) (bool, error) {
	// fast path: existing membership is an idempotent no-op
	if _, err := svc.repo.GetEnrollment(ctx, classroomID, studentID); err == nil {
		return true, nil
	} else if errors.Cause(err) != ErrNotFound {
		return false, errors.Wrap(err, "checking membership")
	}

	enr := Enrollment{
		ClassroomID: classroomID,
		StudentID:   studentID,
		CreatedAt:   time.Now().UTC(),
	}
	err := svc.repo.CreateEnrollment(ctx, enr)
	if err == nil {
		svc.acceptInvitation(ctx, invitationID)
		return false, nil
	}

	switch errors.Cause(err) {
	case ErrDuplicate:
		// a concurrent join won the race; re-check before reporting failure
		if _, gerr := svc.repo.GetEnrollment(ctx, classroomID, studentID); gerr == nil {
			return true, nil
		}
		return false, errors.Wrap(ErrJoinFailed, err.Error())
	case ErrPermissionDenied:
		return svc.enrollFallback(ctx, studentID, token, invitationID)
	default:
		return false, errors.Wrap(ErrJoinFailed, err.Error())
	}
}

// enrollFallback runs the atomic server-side procedure, which preserves
// at-most-once enrollment when the caller cannot insert directly.
func (svc *service) enrollFallback(ctx context.Context, studentID, token, invitationID string) (bool, error) {
	enrolled, err := svc.repo.EnrollStudent(ctx, token, studentID)
	if err != nil {
		return false, errors.Wrap(ErrJoinFailed, err.Error())
	}
	if !enrolled {
		return true, nil
	}
	svc.acceptInvitation(ctx, invitationID)
	return false, nil
}

// acceptInvitation flips the specific invitation that authorized this join.
// Advisory only: enrollment rows are the source of truth, so a bookkeeping
// failure never fails the join.
func (svc *service) acceptInvitation(ctx context.Context, invitationID string) {
	if invitationID == "" {
		return
	}
	_ = svc.invSvc.Accept(ctx, invitationID)
}
