package invitation

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/classroom"
)

var (
	// errors
	ErrNotFound          = errors.New("invitation not found")
	ErrInvalidTransition = errors.New("invalid invitation status transition")
)

type (
	Repository interface {
		CreateInvitation(ctx context.Context, inv Invitation) (Invitation, error)
		GetInvitationByID(ctx context.Context, id string) (Invitation, error)
		// FindPendingByToken returns pending invitations with this exact token,
		// newest first. Tokens are not unique; callers handle multiple hits.
		FindPendingByToken(ctx context.Context, token string) ([]Invitation, error)
		// FindPendingByTokenFold is the case-insensitive variant of FindPendingByToken.
		FindPendingByTokenFold(ctx context.Context, token string) ([]Invitation, error)
		// SearchPendingByTokenMatch returns pending invitations whose token contains
		// the partial code, case-insensitively, newest first.
		SearchPendingByTokenMatch(ctx context.Context, partial string) ([]Invitation, error)
		QueryClassroomInvitations(ctx context.Context, classroomID string) ([]Invitation, error)
		UpdateInvitationStatus(ctx context.Context, id string, status Status) error
	}

	Service interface {
		// Issue creates a new invitation for a classroom. Without an email this is a
		// durable shareable class code; with one, a short-lived single-recipient
		// invite whose recipient is notified by email.
		Issue(ctx context.Context, ni NewInvitation) (Invitation, error)
		// Accept flips a single-recipient invitation to accepted. This is advisory
		// bookkeeping: enrollment records, not invitation status, answer "is this
		// student enrolled". General class codes are left pending and reusable.
		Accept(ctx context.Context, invitationID string) error
		// Resolve matches a canonical code against outstanding invitations using the
		// fixed strategy chain.
		Resolve(ctx context.Context, code string) (Resolution, error)
		QueryByClassroom(ctx context.Context, classroomID string) ([]Invitation, error)
	}

	service struct {
		repo          Repository
		classroomRepo classroom.Repository
		mailSvc       core.EmailService
		conf          *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, classroomRepo classroom.Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:          repo,
		classroomRepo: classroomRepo,
		mailSvc:       mailSvc,
		conf:          conf,
	}
}

func (svc *service) Issue(ctx context.Context, ni NewInvitation) (Invitation, error) {
	cls, err := svc.classroomRepo.GetClassroomByID(ctx, ni.ClassroomID)
	if err != nil {
		if errors.Cause(err) == classroom.ErrNotFound {
			return Invitation{}, err
		}
		return Invitation{}, errors.Wrap(err, "getting classroom")
	}

	token, err := generateToken(svc.conf.Invitation.TokenLength)
	if err != nil {
		return Invitation{}, err
	}

	now := NowFunc().UTC()
	inv := Invitation{
		ClassroomID: cls.ID,
		Token:       token,
		Status:      StatusPending,
		CreatedAt:   now,
	}
	if ni.Email == "" || ni.Email == svc.conf.Invitation.GeneralEmail {
		inv.Email = svc.conf.Invitation.GeneralEmail
		inv.ExpiresAt = now.Add(svc.conf.Invitation.ClassCodeTTL)
	} else {
		inv.Email = ni.Email
		inv.ExpiresAt = now.Add(svc.conf.Invitation.EmailInviteTTL)
	}

	inv, err = svc.repo.CreateInvitation(ctx, inv)
	if err != nil {
		return Invitation{}, errors.Wrap(err, "creating invitation")
	}

	if !inv.IsGeneral(svc.conf.Invitation.GeneralEmail) {
		svc.sendInvitationMail(inv, cls)
	}
	return inv, nil
}

func (svc *service) Accept(ctx context.Context, invitationID string) error {
	inv, err := svc.repo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return errors.Wrap(err, "getting invitation")
	}
	if inv.IsGeneral(svc.conf.Invitation.GeneralEmail) {
		// class codes stay pending so other students can keep using them
		return nil
	}
	if !inv.Status.CanTransition(StatusAccepted) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", inv.Status, StatusAccepted)
	}
	return errors.Wrap(svc.repo.UpdateInvitationStatus(ctx, inv.ID, StatusAccepted), "updating invitation status")
}

func (svc *service) QueryByClassroom(ctx context.Context, classroomID string) ([]Invitation, error) {
	invs, err := svc.repo.QueryClassroomInvitations(ctx, classroomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classroom invitations")
	}
	// expiry is derived, never stored
	now := NowFunc().UTC()
	for i := range invs {
		invs[i].Status = invs[i].EffectiveStatus(now)
	}
	return invs, nil
}

func (svc *service) sendInvitationMail(inv Invitation, cls classroom.Classroom) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: inv.Email}},
		Subject:      fmt.Sprintf("You are invited to join %s", cls.Name),
		TemplateName: "classroom-invite",
		TemplateData: InvitationMailData{
			ClassroomName: cls.Name,
			Code:          inv.Token,
			JoinPath:      "/dashboard?code=" + inv.Token,
		},
	})
}

// InvitationMailData is the template context for the invitation email.
type InvitationMailData struct {
	ClassroomName string
	Code          string
	JoinPath      string
}
