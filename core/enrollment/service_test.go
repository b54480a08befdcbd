package enrollment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/classroom"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/invitation"
	"github.com/darasahq/darasa/core/student"
	emailsvc "github.com/darasahq/darasa/services/email"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

func testConfig() *core.Config {
	return &core.Config{
		Debug:    true,
		TestMode: true,
		AppName:  "Darasa",
		Invitation: core.InvitationConfig{
			TokenLength:    6,
			ClassCodeTTL:   30 * 24 * time.Hour,
			EmailInviteTTL: 7 * 24 * time.Hour,
			GeneralEmail:   "invite@darasa.app",
		},
	}
}

type testEnv struct {
	svc        enrollment.Service
	invSvc     invitation.Service
	studentSvc student.Service
	enrRepo    *inmemdb.EnrollmentRepository
	invRepo    invitation.Repository
	cls        classroom.Classroom
}

func setup(t *testing.T) testEnv {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := testConfig()

	cls, err := inmemdb.NewClassroomRepository(db).CreateClassroom(
		context.Background(),
		classroom.Classroom{ID: "C1", Name: "Algebra II", TeacherID: "T1", CreatedAt: time.Now().UTC()},
	)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	invRepo := inmemdb.NewInvitationRepository(db)
	invSvc := invitation.NewService(invRepo, inmemdb.NewClassroomRepository(db), emailsvc.NewConsoleServiceMock(conf), conf)
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db))
	enrRepo := inmemdb.NewEnrollmentRepository(db)
	svc := enrollment.NewService(enrRepo, invSvc, studentSvc)

	return testEnv{svc: svc, invSvc: invSvc, studentSvc: studentSvc, enrRepo: enrRepo, invRepo: invRepo, cls: cls}
}

func issueCode(t *testing.T, invSvc invitation.Service, classroomID, email string) invitation.Invitation {
	inv, err := invSvc.Issue(context.Background(), invitation.NewInvitation{ClassroomID: classroomID, Email: email})
	if err != nil {
		t.Fatalf("issueCode() failed: %v", err)
	}
	return inv
}

func Test_service_Join(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	inv := issueCode(t, env.invSvc, env.cls.ID, "")

	t.Run("invalid input", func(t *testing.T) {
		_, err := env.svc.Join(ctx, enrollment.JoinRequest{RawInput: "???", UserID: "U1", StudentName: "Jane"})
		assert.Equal(t, invitation.ErrInvalidCodeFormat, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := env.svc.Join(ctx, enrollment.JoinRequest{RawInput: "ZZZZZZ", UserID: "U1", StudentName: "Jane"})
		assert.Equal(t, invitation.ErrCodeNotFound, err)
	})

	t.Run("pasted join link", func(t *testing.T) {
		res, err := env.svc.Join(ctx, enrollment.JoinRequest{
			RawInput:    "https://app.darasa.app/dashboard?code=" + inv.Token,
			UserID:      "U1",
			StudentName: "Jane Doe",
		})
		if err != nil {
			t.Fatalf("Join() failed: %v", err)
		}
		assert.False(t, res.AlreadyMember)
		assert.Equal(t, env.cls.ID, res.Classroom.ID)
		assert.Equal(t, inv.Token, res.Code)

		// the profile was provisioned and the enrollment row exists
		prof, err := env.studentSvc.EnsureProfile(ctx, "U1", "Jane Doe")
		if err != nil {
			t.Fatalf("EnsureProfile() failed: %v", err)
		}
		if _, err := env.enrRepo.GetEnrollment(ctx, env.cls.ID, prof.ID); err != nil {
			t.Errorf("GetEnrollment() failed: %v", err)
		}
	})

	t.Run("second join is an idempotent no-op", func(t *testing.T) {
		res, err := env.svc.Join(ctx, enrollment.JoinRequest{RawInput: inv.Token, UserID: "U1", StudentName: "Jane Doe"})
		if err != nil {
			t.Fatalf("Join() failed: %v", err)
		}
		assert.True(t, res.AlreadyMember)
		assert.Equal(t, env.cls.ID, res.Classroom.ID)
	})

	t.Run("general code stays pending after joins", func(t *testing.T) {
		refreshed, err := env.invRepo.GetInvitationByID(ctx, inv.ID)
		if err != nil {
			t.Fatalf("GetInvitationByID() failed: %v", err)
		}
		assert.Equal(t, invitation.StatusPending, refreshed.Status)
	})
}

func Test_service_Join_acceptsInvite(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	inv := issueCode(t, env.invSvc, env.cls.ID, "jane@test.cd")

	res, err := env.svc.Join(ctx, enrollment.JoinRequest{RawInput: inv.Token, UserID: "U1", StudentName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	assert.False(t, res.AlreadyMember)

	refreshed, err := env.invRepo.GetInvitationByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvitationByID() failed: %v", err)
	}
	assert.Equal(t, invitation.StatusAccepted, refreshed.Status, "first successful use flips the invite")
}

// When the access policy blocks direct inserts, the coordinator must fall back
// to the atomic server-side procedure and still end up enrolled exactly once.
func Test_service_Join_fallback(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	inv := issueCode(t, env.invSvc, env.cls.ID, "jane@test.cd")

	env.enrRepo.DenyDirectInsert = true

	res, err := env.svc.Join(ctx, enrollment.JoinRequest{RawInput: inv.Token, UserID: "U1", StudentName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	assert.False(t, res.AlreadyMember)

	refreshed, err := env.invRepo.GetInvitationByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvitationByID() failed: %v", err)
	}
	assert.Equal(t, invitation.StatusAccepted, refreshed.Status)

	// replay through the fallback reports membership instead of failing
	res, err = env.svc.Join(ctx, enrollment.JoinRequest{RawInput: inv.Token, UserID: "U1", StudentName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	assert.True(t, res.AlreadyMember)
}

func Test_service_Join_expiredCode(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	inv, err := env.invRepo.CreateInvitation(ctx, invitation.Invitation{
		ClassroomID: env.cls.ID,
		Token:       "LAPSED",
		Status:      invitation.StatusPending,
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateInvitation() failed: %v", err)
	}

	_, err = env.svc.Join(ctx, enrollment.JoinRequest{RawInput: inv.Token, UserID: "U1", StudentName: "Jane"})
	assert.Equal(t, invitation.ErrCodeExpired, err)
}

// Concurrent joins by the same student may race on the insert; exactly one
// wins it and everyone reports success.
func Test_service_Join_concurrent(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	inv := issueCode(t, env.invSvc, env.cls.ID, "")

	const n = 10
	results := make([]enrollment.JoinResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.svc.Join(ctx, enrollment.JoinRequest{
				RawInput:    inv.Token,
				UserID:      "U1",
				StudentName: "Jane Doe",
			})
		}(i)
	}
	wg.Wait()

	var fresh int
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Join() #%d failed: %v", i, errs[i])
		}
		assert.Equal(t, env.cls.ID, results[i].Classroom.ID)
		if !results[i].AlreadyMember {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh, "exactly one call creates the enrollment")
}
