package dao_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/mockapi"
	"github.com/absensi/absensi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newFactory(t *testing.T, ttl time.Duration) (*dao.Factory, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	h := mockapi.New().Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := api.NewClient(api.Options{BaseURL: srv.URL + mockapi.APIPrefix})
	f := dao.NewFactory(c, ttl)
	env, err := f.Auth().Login(context.Background(), dao.LoginRequest{Email: mockapi.DemoAdminEmail, Password: mockapi.DemoPassword})
	require.NoError(t, err)
	c.AddRequestInterceptor(api.BearerToken(staticToken(env.Content.AccessToken)))
	hits.Store(0)

	return f, &hits
}

func TestResourceListCache(t *testing.T) {
	f, hits := newFactory(t, time.Minute)
	ctx := context.Background()
	roles := f.Roles()

	pg, err := roles.List(ctx, model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, pg.Items, 3)
	_, err = roles.List(ctx, model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())

	_, err = roles.Create(ctx, dao.Role{Name: "Auditor"})
	require.NoError(t, err)
	pg, err = roles.List(ctx, model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, pg.Items, 4)
	assert.EqualValues(t, 3, hits.Load())
}

func TestResourceAll(t *testing.T) {
	f, hits := newFactory(t, 0)

	uu, err := f.Users().All(context.Background(), dao.PageRequest{Rows: 3})
	require.NoError(t, err)
	assert.Len(t, uu, 7)
	assert.EqualValues(t, 3, hits.Load())
}

func TestResourceEmptyID(t *testing.T) {
	f, hits := newFactory(t, 0)
	ctx := context.Background()

	_, err := f.Users().Get(ctx, "")
	assert.ErrorIs(t, err, dao.ErrEmptyID)
	assert.ErrorIs(t, f.Users().Delete(ctx, ""), dao.ErrEmptyID)
	_, err = f.Users().Patch(ctx, "", dao.User{}, dao.User{Name: "x"})
	assert.ErrorIs(t, err, dao.ErrEmptyID)
	assert.EqualValues(t, 0, hits.Load())
}

func TestRegistry(t *testing.T) {
	rid, err := dao.ResourceFor("attendance")
	require.NoError(t, err)
	assert.Equal(t, "/attendances", rid.Path)

	_, err = dao.ResourceFor("invoices")
	assert.ErrorIs(t, err, dao.ErrUnknownResource)

	rr := dao.ListResources()
	require.Len(t, rr, 4)
	assert.Equal(t, "attendance", rr[0].Name)
	assert.Equal(t, "users", rr[3].Name)
}

func TestGeneratePatch(t *testing.T) {
	_, err := dao.GeneratePatch(dao.User{Name: "a"}, dao.User{Name: "a"})
	assert.ErrorIs(t, err, dao.ErrNoChanges)

	p, err := dao.GeneratePatch(dao.User{Name: "a"}, dao.User{Name: "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"op":"replace","path":"/name","value":"b"}]`, string(p))
}
