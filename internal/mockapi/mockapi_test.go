package mockapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/mockapi"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)

type token struct {
	value string
	mx    sync.Mutex
}

func (t *token) Token() string {
	t.mx.Lock()
	defer t.mx.Unlock()
	return t.value
}

func (t *token) set(s string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.value = s
}

type backend struct {
	factory *dao.Factory
	token   *token
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	srv := httptest.NewServer(mockapi.New(mockapi.WithClock(func() time.Time { return monday })).Handler())
	t.Cleanup(srv.Close)

	tok := new(token)
	c := api.NewClient(api.Options{BaseURL: srv.URL + mockapi.APIPrefix})
	c.AddRequestInterceptor(api.BearerToken(tok))

	return &backend{factory: dao.NewFactory(c, 0), token: tok}
}

func (b *backend) login(t *testing.T, email string) dao.User {
	t.Helper()

	env, err := b.factory.Auth().Login(context.Background(), dao.LoginRequest{Email: email, Password: mockapi.DemoPassword})
	require.NoError(t, err)
	require.NotEmpty(t, env.Content.AccessToken)
	b.token.set(env.Content.AccessToken)

	return env.Content.User
}

func TestLogin(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	_, err := b.factory.Auth().Login(ctx, dao.LoginRequest{Email: mockapi.DemoAdminEmail, Password: "nope"})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid email or password", api.ErrorEnvelope(err).Message)

	_, err = b.factory.Auth().Me(ctx)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))

	u := b.login(t, "ADMIN@example.com")
	assert.Equal(t, "Admin Backoffice", u.Name)

	me, err := b.factory.Auth().Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, me)

	require.NoError(t, b.factory.Auth().Logout(ctx))
	_, err = b.factory.Auth().Me(ctx)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestListPaging(t *testing.T) {
	b := newBackend(t)
	b.login(t, mockapi.DemoAdminEmail)

	pg, err := b.factory.Users().List(context.Background(), model.Query{
		Page:     2,
		PageSize: 3,
		Sort:     model1.SortSpec{{Key: "name", Direction: model1.SortAsc}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 3, pg.PageSize)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 7, pg.TotalData)
	require.Len(t, pg.Items, 3)
	assert.Equal(t, []string{"Charlie Brown", "Dewi Lestari", "Jane Smith"}, names(pg.Items))

	pg, err = b.factory.Users().List(context.Background(), model.Query{
		Page:     9,
		PageSize: 3,
		Sort:     model1.SortSpec{{Key: "name", Direction: model1.SortDesc}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, []string{"Admin Backoffice"}, names(pg.Items))
}

func TestListFilters(t *testing.T) {
	b := newBackend(t)
	b.login(t, mockapi.DemoAdminEmail)
	ctx := context.Background()

	pg, err := b.factory.Users().List(ctx, model.Query{Search: "john"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"John Doe", "Bob Johnson"}, names(pg.Items))
	assert.Equal(t, 2, pg.TotalData)

	pg, err = b.factory.Users().List(ctx, model.Query{Filters: map[string]string{"role": "mentor"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dewi Lestari"}, names(pg.Items))

	att, err := b.factory.Attendance().ListPage(ctx, dao.PageRequest{
		RangedFilters: []dao.RangedFilter{{Key: "date", Start: "2024-01-01", End: "2024-01-14"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Williams"}, names(att.Items))
}

func TestCRUD(t *testing.T) {
	b := newBackend(t)
	b.login(t, mockapi.DemoAdminEmail)
	ctx := context.Background()
	divs := b.factory.Divisions()

	_, err := divs.Create(ctx, dao.Division{Description: "no name"})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnprocessableEntity))
	assert.Equal(t, "Name is required", api.FieldErrors(err)["name"])

	d, err := divs.Create(ctx, dao.Division{Name: "Divisi Legal", Description: "Mengelola kontrak"})
	require.NoError(t, err)
	assert.Equal(t, "5", d.ID)

	got, err := divs.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = divs.Patch(ctx, d.ID, d, d)
	assert.ErrorIs(t, err, dao.ErrNoChanges)

	mod := d
	mod.Description = "Mengelola kontrak dan perizinan"
	got, err = divs.Patch(ctx, d.ID, d, mod)
	require.NoError(t, err)
	assert.Equal(t, mod, got)

	mod.Name = "Divisi Hukum"
	got, err = divs.Update(ctx, d.ID, mod)
	require.NoError(t, err)
	assert.Equal(t, "Divisi Hukum", got.Name)

	require.NoError(t, divs.Delete(ctx, d.ID))
	_, err = divs.Get(ctx, d.ID)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
	assert.True(t, api.IsStatus(divs.Delete(ctx, d.ID), http.StatusNotFound))
}

func TestAttendanceActions(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	acts := b.factory.AttendanceActions()

	b.login(t, "john.doe@example.com")
	a, err := acts.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, dao.StatusAbsent, a.Status)
	_, err = acts.CheckIn(ctx)
	assert.True(t, api.IsStatus(err, http.StatusConflict))

	b.login(t, mockapi.DemoAdminEmail)
	a, err = acts.Today(ctx)
	require.NoError(t, err)
	assert.Empty(t, a.ID)

	_, err = acts.CheckOut(ctx)
	assert.True(t, api.IsStatus(err, http.StatusConflict))

	env, err := acts.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Checked in successfully!", env.Message)
	assert.Equal(t, "08:00", env.Content.CheckIn)
	assert.Equal(t, "2024-01-15", env.Content.Date)

	env, err = acts.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, "08:00", env.Content.CheckOut)
	_, err = acts.CheckOut(ctx)
	assert.True(t, api.IsStatus(err, http.StatusConflict))

	b.login(t, "dewi.lestari@example.com")
	_, err = acts.MarkSick(ctx, "  ")
	assert.ErrorIs(t, err, dao.ErrReasonRequired)

	_, err = api.Post[dao.Attendance](ctx, b.factory.Client(), "/attendances/permit", dao.ReasonRequest{}, api.RequestOptions{})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnprocessableEntity))
	assert.Equal(t, "Please provide a reason", api.FieldErrors(err)["reason"])

	env, err = acts.RequestPermit(ctx, "Medical appointment")
	require.NoError(t, err)
	assert.Equal(t, "Permit request submitted", env.Message)
	assert.Equal(t, dao.StatusPermit, env.Content.Status)
	_, err = acts.MarkSick(ctx, "Flu")
	assert.True(t, api.IsStatus(err, http.StatusConflict))
}

func TestStatistics(t *testing.T) {
	b := newBackend(t)
	b.login(t, mockapi.DemoAdminEmail)

	st, err := b.factory.Dashboard().Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dao.Statistic{TotalInterns: 5, PresentToday: 2, AbsentToday: 2, OnLeave: 1}, st)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(mockapi.New().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func names[T dao.Object](oo []T) []string {
	nn := make([]string, 0, len(oo))
	for _, o := range oo {
		nn = append(nn, o.GetName())
	}
	return nn
}
