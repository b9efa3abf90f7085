package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/mockapi"
	"github.com/absensi/absensi/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var john = dao.User{ID: "2", Name: "John Doe", Email: "john.doe@example.com", Role: "Intern"}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "credentials")

	s := session.NewStore(path, "default", nil)
	require.NoError(t, s.Load())
	assert.False(t, s.Current().IsLogin)
	_, err := s.Require()
	assert.ErrorIs(t, err, session.ErrNoSession)

	var seen []session.Session
	s.AddListener(func(sess session.Session) { seen = append(seen, sess) })

	require.Error(t, s.Login(dao.LoginResponse{User: john}))
	require.NoError(t, s.Login(dao.LoginResponse{AccessToken: "tok", User: john}))
	assert.Equal(t, "tok", s.Token())
	require.Len(t, seen, 1)
	assert.True(t, seen[0].IsLogin)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	other := session.NewStore(path, "staging", nil)
	require.NoError(t, other.Login(dao.LoginResponse{AccessToken: "tok2", User: dao.User{ID: "1"}}))

	again := session.NewStore(path, "default", nil)
	require.NoError(t, again.Load())
	sess, err := again.Require()
	require.NoError(t, err)
	assert.Equal(t, john, sess.User)
	assert.Equal(t, s.Current().LoggedInAt, sess.LoggedInAt)

	pp, err := again.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "staging"}, pp)

	require.NoError(t, again.Logout())
	assert.Empty(t, again.Token())
	pp, err = again.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"staging"}, pp)
}

func TestExpireOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(mockapi.New().Handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "credentials")
	s := session.NewStore(path, "default", nil)
	require.NoError(t, s.Login(dao.LoginResponse{AccessToken: "stale", User: john}))

	c := api.NewClient(api.Options{BaseURL: srv.URL + mockapi.APIPrefix})
	c.AddRequestInterceptor(api.BearerToken(s))
	c.AddResponseInterceptor(session.ExpireOnUnauthorized(s))

	_, err := dao.NewAuth(c).Me(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, s.Current().IsLogin)

	reloaded := session.NewStore(path, "default", nil)
	require.NoError(t, reloaded.Load())
	assert.False(t, reloaded.Current().IsLogin)
}
