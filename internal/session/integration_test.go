package session_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/saajha/bloodlink/internal/apitest"
	"github.com/saajha/bloodlink/internal/client"
	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct{ token string }

func (s *slot) LoadToken() (string, error) { return s.token, nil }
func (s *slot) SaveToken(t string) error   { s.token = t; return nil }
func (s *slot) ClearToken() error          { s.token = ""; return nil }

type quiet struct{}

func (quiet) Success(string) {}
func (quiet) Error(string)   {}

func newAPIClient(t *testing.T, srv *apitest.Server) *client.Client {
	t.Helper()
	cfg := client.DefaultConfig()
	cfg.ServerURL = srv.URL
	c, err := client.New(cfg)
	require.NoError(t, err)
	return c
}

func TestManager_HydratesAgainstAPI(t *testing.T) {
	srv := apitest.NewServer(t)
	user := srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "pw")
	store := &slot{token: srv.IssueToken(user.ID)}

	m := session.NewManager(store, newAPIClient(t, srv), quiet{})
	snap := m.Initialize(context.Background())

	require.Equal(t, session.StatusAuthenticated, snap.Status)
	assert.Equal(t, user.ID, snap.User.ID)
	assert.Equal(t, session.Decision{Outcome: session.Redirect, Target: "/dashboard"},
		session.Guard(snap.Status, session.AnonymousOnly))
}

func TestManager_AnyNon2xxClearsToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := apitest.NewServer(t)
			user := srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "pw")
			store := &slot{token: srv.IssueToken(user.ID)}
			srv.SetMeStatus(status)

			m := session.NewManager(store, newAPIClient(t, srv), quiet{})
			snap := m.Initialize(context.Background())

			assert.Equal(t, session.Snapshot{Status: session.StatusAnonymous}, snap)
			assert.Empty(t, store.token)
		})
	}
}

func TestManager_RevokedToken(t *testing.T) {
	srv := apitest.NewServer(t)
	user := srv.AddUser(models.User{Email: "asha@example.com", FullName: "Asha Rao", Role: models.RoleDonor}, "pw")
	token := srv.IssueToken(user.ID)
	srv.RevokeToken(token)
	store := &slot{token: token}

	m := session.NewManager(store, newAPIClient(t, srv), quiet{})
	snap := m.Initialize(context.Background())

	assert.Equal(t, session.StatusAnonymous, snap.Status)
	assert.Equal(t, session.Decision{Outcome: session.Redirect, Target: "/login"},
		session.Guard(snap.Status, session.AuthenticatedOnly))
}
