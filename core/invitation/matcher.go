package invitation

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/classroom"
)

// partialMatchPrefix is the recognized class-code family marker; partial
// matching is only attempted for codes in this family so that arbitrary
// 4-letter typos cannot land students in the wrong classroom.
const partialMatchPrefix = "CL"

var (
	// ErrCodeNotFound means every strategy missed; the student should re-check the code.
	ErrCodeNotFound = errors.New("code not found")
	// ErrCodeExpired means a matching invitation exists but has lapsed;
	// the student should request a new code.
	ErrCodeExpired = errors.New("code has expired")
)

// Resolution is the outcome of resolving a canonical code.
type Resolution struct {
	ClassroomID  string
	InvitationID string // empty when resolved via the classroom-id fallback
	Classroom    classroom.Classroom
}

type matchStrategy struct {
	name  string
	match func(svc *service, ctx context.Context, code string) (*Resolution, error)
}

// resolveStrategies is the fixed resolution precedence; earlier strategies win.
// When two strategies could both match, this order is the tie-break, so it must
// not be reordered.
var resolveStrategies = []matchStrategy{
	{"exact", (*service).matchExact},
	{"classroom-id", (*service).matchClassroomID},
	{"partial", (*service).matchPartial},
	{"fold", (*service).matchFold},
}

func (svc *service) Resolve(ctx context.Context, code string) (Resolution, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Resolution{}, ErrCodeNotFound
	}

	var sawExpired bool
	for _, strat := range resolveStrategies {
		hit, err := strat.match(svc, ctx, code)
		if err != nil {
			if errors.Cause(err) == ErrCodeExpired {
				// a later strategy may still produce a live hit
				sawExpired = true
				continue
			}
			return Resolution{}, errors.Wrapf(err, "%s match", strat.name)
		}
		if hit != nil {
			return *hit, nil
		}
	}
	if sawExpired {
		return Resolution{}, ErrCodeExpired
	}
	return Resolution{}, ErrCodeNotFound
}

// matchExact hits on a pending, unexpired invitation with this exact token.
func (svc *service) matchExact(ctx context.Context, code string) (*Resolution, error) {
	invs, err := svc.repo.FindPendingByToken(ctx, code)
	if err != nil {
		return nil, err
	}
	return svc.pickPending(ctx, invs)
}

// matchClassroomID treats the code as a raw classroom identifier
// (legacy support for direct links).
func (svc *service) matchClassroomID(ctx context.Context, code string) (*Resolution, error) {
	cls, err := svc.classroomRepo.GetClassroomByID(ctx, code)
	if errors.Cause(err) == classroom.ErrNotFound {
		// normalization uppercases; stored ids may not be
		cls, err = svc.classroomRepo.GetClassroomByID(ctx, strings.ToLower(code))
	}
	if err != nil {
		if errors.Cause(err) == classroom.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &Resolution{ClassroomID: cls.ID, Classroom: cls}, nil
}

// matchPartial recovers from a mis-transcribed character via a
// case-insensitive substring match, but only for codes carrying the
// recognized family prefix.
func (svc *service) matchPartial(ctx context.Context, code string) (*Resolution, error) {
	if !strings.HasPrefix(code, partialMatchPrefix) {
		return nil, nil
	}
	invs, err := svc.repo.SearchPendingByTokenMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	return svc.pickPending(ctx, invs)
}

// matchFold defends against stray normalization misses with a
// case-insensitive exact match.
func (svc *service) matchFold(ctx context.Context, code string) (*Resolution, error) {
	invs, err := svc.repo.FindPendingByTokenFold(ctx, code)
	if err != nil {
		return nil, err
	}
	return svc.pickPending(ctx, invs)
}

// pickPending selects the first live invitation from a candidate list (tokens
// are not guaranteed unique at the storage layer, so there may be several) and
// loads its classroom. All candidates expired is reported as ErrCodeExpired.
func (svc *service) pickPending(ctx context.Context, invs []Invitation) (*Resolution, error) {
	now := NowFunc().UTC()
	var sawExpired bool
	for _, inv := range invs {
		if inv.IsExpired(now) {
			sawExpired = true
			continue
		}
		cls, err := svc.classroomRepo.GetClassroomByID(ctx, inv.ClassroomID)
		if err != nil {
			if errors.Cause(err) == classroom.ErrNotFound {
				// classroom deleted from under its invitations; skip
				continue
			}
			return nil, errors.Wrap(err, "loading classroom for invitation")
		}
		return &Resolution{ClassroomID: inv.ClassroomID, InvitationID: inv.ID, Classroom: cls}, nil
	}
	if sawExpired {
		return nil, ErrCodeExpired
	}
	return nil, nil
}
