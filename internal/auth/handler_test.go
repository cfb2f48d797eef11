package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ensemble-club/ensemble/internal/authz"
	"github.com/ensemble-club/ensemble/internal/members"
	"github.com/ensemble-club/ensemble/internal/shared"
)

type authFixture struct {
	router   chi.Router
	roster   *members.Service
	sessions *shared.SessionManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	roster := members.NewService()
	handler := NewHandler(logger, NewService(roster), sessions)

	router := chi.NewRouter()
	router.Route("/api/auth", handler.MountRoutes)
	return &authFixture{router: router, roster: roster, sessions: sessions}
}

func (f *authFixture) do(t *testing.T, method, path, body string, prep func(*shared.Session)) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	sess, err := f.sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if prep != nil {
		prep(sess)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr, sess
}

func TestLoginSuccessBindsSession(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.roster.Create(context.Background(), members.CreateInput{
		FullName: "Inventory Manager",
		Email:    "inventory@club.com",
		Role:     authz.RoleInventoryManager,
		Password: "correct horse",
	})
	require.NoError(t, err)

	rr, sess := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"inventory@club.com","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body members.Member
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, authz.RoleInventoryManager, body.Role)
	require.Empty(t, body.PasswordHash)

	require.Equal(t, body.ID, sess.User())
	require.Equal(t, string(authz.RoleInventoryManager), sess.Role())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.roster.Create(ctx, members.CreateInput{
		FullName: "Jane Trainee",
		Email:    "trainee@club.com",
		Role:     authz.RoleTrainee,
		Password: "password",
	})
	require.NoError(t, err)

	rr, sess := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"trainee@club.com","password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Empty(t, sess.User())

	// Unknown email answers identically to a wrong password.
	rr, _ = f.do(t, http.MethodPost, "/api/auth/login", `{"email":"nobody@club.com","password":"password"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginRejectsInactiveMember(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	member, err := f.roster.Create(ctx, members.CreateInput{
		FullName: "Old Member",
		Email:    "old@club.com",
		Role:     authz.RoleTrainee,
		Password: "password",
	})
	require.NoError(t, err)
	_, err = f.roster.UpdateStatus(ctx, member.ID, members.StatusGraduated)
	require.NoError(t, err)

	rr, _ := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"old@club.com","password":"password"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginValidation(t *testing.T) {
	f := newAuthFixture(t)

	rr, _ := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"x"}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = f.do(t, http.MethodPost, "/api/auth/login", `{`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	member, err := f.roster.Create(ctx, members.CreateInput{
		FullName: "Admin Leader",
		Email:    "admin@club.com",
		Role:     authz.RoleClubLeader,
		Password: "password",
	})
	require.NoError(t, err)

	rr, _ := f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = f.do(t, http.MethodGet, "/api/auth/me", "", func(sess *shared.Session) {
		sess.SetUser(member.ID, string(member.Role))
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var body members.Member
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, member.ID, body.ID)

	rr, _ = f.do(t, http.MethodPost, "/api/auth/logout", "", func(sess *shared.Session) {
		sess.SetUser(member.ID, string(member.Role))
	})
	require.Equal(t, http.StatusOK, rr.Code)
}
