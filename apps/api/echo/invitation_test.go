package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/invitation"
)

func Test_invitationApi_create(t *testing.T) {
	env := setupServer(t)
	owner := authToken(t, env.conf, "T1", "Mr Banza", true)
	otherTeacher := authToken(t, env.conf, "T2", "Mrs Kalala", true)
	studentTok := authToken(t, env.conf, "U1", "Jane Doe", false)

	path := "/v1/classrooms/" + env.cls.ID + "/invitations"

	t.Run("requires auth", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, "", invitation.NewInvitation{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("students may not issue codes", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, studentTok, invitation.NewInvitation{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("only the classroom's teacher may issue codes", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, otherTeacher, invitation.NewInvitation{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown classroom", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", "/v1/classrooms/nope/invitations", owner, invitation.NewInvitation{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("issues a class code", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, owner, invitation.NewInvitation{})
		if !assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String()) {
			return
		}
		var inv invitation.Invitation
		if err := json.Unmarshal(rec.Body.Bytes(), &inv); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		assert.Len(t, inv.Token, env.conf.Invitation.TokenLength)
		assert.Equal(t, env.cls.ID, inv.ClassroomID)
		assert.Equal(t, invitation.StatusPending, inv.Status)
	})

	t.Run("issues an email invite", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, owner, invitation.NewInvitation{Email: "jane@test.cd"})
		if !assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String()) {
			return
		}
		var inv invitation.Invitation
		if err := json.Unmarshal(rec.Body.Bytes(), &inv); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		assert.Equal(t, "jane@test.cd", inv.Email)
	})

	t.Run("rejects a bad email", func(t *testing.T) {
		rec := doRequest(t, env.server, "POST", path, owner, invitation.NewInvitation{Email: "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_invitationApi_query(t *testing.T) {
	env := setupServer(t)
	owner := authToken(t, env.conf, "T1", "Mr Banza", true)
	studentTok := authToken(t, env.conf, "U1", "Jane Doe", false)

	path := "/v1/classrooms/" + env.cls.ID + "/invitations"

	for i := 0; i < 2; i++ {
		rec := doRequest(t, env.server, "POST", path, owner, invitation.NewInvitation{})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seeding invitation failed: %s", rec.Body.String())
		}
	}

	t.Run("students may not list invitations", func(t *testing.T) {
		rec := doRequest(t, env.server, "GET", path, studentTok, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("lists the classroom's invitations", func(t *testing.T) {
		rec := doRequest(t, env.server, "GET", path, owner, nil)
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		var invs []invitation.Invitation
		if err := json.Unmarshal(rec.Body.Bytes(), &invs); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		assert.Len(t, invs, 2)
	})
}
