package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/invitation"
)

func Test_joinApi_join(t *testing.T) {
	env := setupServer(t)
	token := authToken(t, env.conf, "U1", "Jane Doe", false)

	inv, err := env.invSvc.Issue(context.Background(), invitation.NewInvitation{ClassroomID: env.cls.ID})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	t.Run("requires auth", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", "", JoinCodeRequest{Code: inv.Token})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing code", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid code", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{Code: "?!"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{Code: "ZZZZZZ"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expired code", func(t *testing.T) {
		_, err := env.invRepo.CreateInvitation(context.Background(), invitation.Invitation{
			ClassroomID: env.cls.ID,
			Token:       "LAPSED",
			Status:      invitation.StatusPending,
			ExpiresAt:   time.Now().UTC().Add(-time.Minute),
			CreatedAt:   time.Now().UTC().Add(-time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateInvitation() failed: %v", err)
		}

		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{Code: "LAPSED"})
		assert.Equal(t, http.StatusGone, rec.Code)
	})

	t.Run("joins", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{Code: inv.Token})
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		resp := decodeJoinResponse(t, rec)
		assert.False(t, resp.AlreadyMember)
		assert.Equal(t, env.cls.ID, resp.Classroom.ID)
		assert.Equal(t, "Joined Algebra II!", resp.Message)
	})

	t.Run("rejoining is informational", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join", token, JoinCodeRequest{Code: inv.Token})
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		resp := decodeJoinResponse(t, rec)
		assert.True(t, resp.AlreadyMember)
		assert.Equal(t, "You are already a member of Algebra II.", resp.Message)
	})
}

func Test_joinApi_joinByURL(t *testing.T) {
	env := setupServer(t)
	token := authToken(t, env.conf, "U2", "John Doe", false)

	inv, err := env.invSvc.Issue(context.Background(), invitation.NewInvitation{ClassroomID: env.cls.ID})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	t.Run("missing code param", func(t *testing.T) {
		rec := doRequest(t, env.server, "GET", "/v1/join", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("joins from shared link", func(t *testing.T) {
		rec := doRequest(t, env.server, "GET", "/v1/join?code="+url.QueryEscape(inv.Token), token, nil)
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		resp := decodeJoinResponse(t, rec)
		assert.False(t, resp.AlreadyMember)
		assert.Equal(t, env.cls.ID, resp.Classroom.ID)
	})
}

func Test_joinApi_joinQR(t *testing.T) {
	env := setupServer(t)
	token := authToken(t, env.conf, "U3", "Jo Doe", false)

	inv, err := env.invSvc.Issue(context.Background(), invitation.NewInvitation{ClassroomID: env.cls.ID})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	t.Run("missing payload", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join/qr", token, QRJoinRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("joins from a full join URL payload", func(t *testing.T) {
		payload := "https://app.darasa.app/dashboard?code=" + inv.Token
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/join/qr", token, QRJoinRequest{Payload: payload})
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		resp := decodeJoinResponse(t, rec)
		assert.False(t, resp.AlreadyMember)
		assert.Equal(t, inv.Token, resp.Code)
	})
}
