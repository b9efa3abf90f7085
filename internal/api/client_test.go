package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/absensi/absensi/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newServer(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return api.NewClient(api.Options{BaseURL: srv.URL + "/"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetJSON(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, map[string]any{
			"content": map[string]any{"id": "1", "name": "Ana"},
			"message": "Success",
			"errors":  nil,
		})
	})

	env, err := api.Get[user](context.Background(), c, "/users/1", api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, user{ID: "1", Name: "Ana"}, env.Content)
	assert.Equal(t, "Success", env.Message)
	assert.Nil(t, env.Errors)
}

func TestNotFoundJSON(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	_, err := api.Get[user](context.Background(), c, "/users/9", api.RequestOptions{})
	require.Error(t, err)

	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "Not Found", he.Message)
	require.NotNil(t, he.Response)
	assert.Equal(t, http.StatusNotFound, he.Response.Status)
	assert.Equal(t, "Not Found", he.Response.Data.Message)
	assert.Equal(t, api.KindProtocol, he.Kind)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestErrorWithoutMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.Do(context.Background(), "/x", api.RequestOptions{})
	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "HTTP Error: 502", he.Message)
	assert.Equal(t, http.StatusBadGateway, he.StatusCode())
}

func TestTextBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok")
	})

	env, err := api.Get[string](context.Background(), c, "/health", api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", env.Content)
	assert.Equal(t, "Success", env.Message)
	assert.Nil(t, env.Errors)
}

func TestInterceptorOrder(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"content": r.Header.Get("X-Trace")})
	})
	mark := func(m string) api.RequestInterceptor {
		return api.RequestInterceptorFunc(func(_ context.Context, cfg *api.RequestConfig) (*api.RequestConfig, error) {
			v := cfg.Header("X-Trace")
			if v != "" {
				v += ","
			}
			cfg.SetHeader("X-Trace", v+m)
			return cfg, nil
		})
	}
	c.AddRequestInterceptor(mark("A"))
	c.AddRequestInterceptor(mark("B"))

	var seen []string
	for _, m := range []string{"1", "2"} {
		c.AddResponseInterceptor(api.ResponseInterceptorFunc(func(_ context.Context, resp *http.Response) (*http.Response, error) {
			seen = append(seen, m)
			return resp, nil
		}))
	}

	env, err := api.Get[string](context.Background(), c, "/", api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A,B", env.Content)
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestInterceptorError(t *testing.T) {
	var hit bool
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hit = true
	})
	boom := errors.New("boom")
	c.AddRequestInterceptor(api.RequestInterceptorFunc(func(context.Context, *api.RequestConfig) (*api.RequestConfig, error) {
		return nil, boom
	}))

	_, err := c.Do(context.Background(), "/", api.RequestOptions{})
	require.Error(t, err)
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)

	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Nil(t, he.Response)
	assert.Equal(t, "boom", he.Message)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.NewClient(api.Options{BaseURL: url})
	_, err := c.Do(context.Background(), "/", api.RequestOptions{})
	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Nil(t, he.Response)
	assert.Equal(t, api.KindTransport, he.Kind)
	assert.NotEmpty(t, he.Message)
	assert.Equal(t, 0, he.StatusCode())
}

func TestDecodeFailure(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "{not json")
	})

	_, err := c.Do(context.Background(), "/", api.RequestOptions{})
	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Nil(t, he.Response)
	assert.Equal(t, api.KindDecode, he.Kind)
}

func TestEmptyJSONBody(t *testing.T) {
	uu := map[string]struct {
		status int
		kind   api.ErrorKind
	}{
		"no-content": {status: http.StatusNoContent},
		"ok":         {status: http.StatusOK, kind: api.KindDecode},
		"bad":        {status: http.StatusBadRequest, kind: api.KindDecode},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(u.status)
			})

			env, err := c.Do(context.Background(), "/", api.RequestOptions{Method: http.MethodDelete})
			if u.kind == 0 {
				require.NoError(t, err)
				assert.Empty(t, env.Message)
				return
			}
			he, ok := api.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, u.kind, he.Kind)
		})
	}
}

func TestNoClientDeadline(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"content": "late"})
	})

	env, err := api.Get[string](context.Background(), c, "/slow", api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "late", env.Content)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = api.Get[string](ctx, c, "/slow", api.RequestOptions{})
	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindTransport, he.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestContentDecodeFailure(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"content": "not a user"})
	})

	_, err := api.Get[user](context.Background(), c, "/", api.RequestOptions{})
	he, ok := api.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, api.KindDecode, he.Kind)
}

func TestHeaderPrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"content": r.Header.Get("X-Tenant") + "|" + r.Header.Get("Accept-Language")})
	}))
	defer srv.Close()

	c := api.NewClient(api.Options{
		BaseURL: srv.URL,
		Headers: map[string]string{"X-Tenant": "default", "Accept-Language": "id"},
	})
	env, err := api.Get[string](context.Background(), c, "/", api.RequestOptions{
		Headers: map[string]string{"x-tenant": "call"},
	})
	require.NoError(t, err)
	assert.Equal(t, "call|id", env.Content)
}

func TestPostBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in user
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "42"
		writeJSON(w, http.StatusCreated, map[string]any{"content": in, "message": "Created"})
	})

	env, err := api.Post[user](context.Background(), c, "/users", user{Name: "Budi"}, api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, user{ID: "42", Name: "Budi"}, env.Content)
	assert.Equal(t, "Created", env.Message)
}

func TestQueryAndDelete(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		writeJSON(w, http.StatusOK, map[string]any{"content": nil, "message": "Deleted"})
	})

	env, err := api.Delete[json.RawMessage](context.Background(), c, "/users/1", api.RequestOptions{
		Query: map[string][]string{"force": {"true"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Deleted", env.Message)
}

func TestBuiltinInterceptors(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"content": map[string]string{
			"auth": r.Header.Get("Authorization"),
			"rid":  r.Header.Get(api.RequestIDHeader),
		}})
	})
	c.AddRequestInterceptor(api.BearerToken(staticToken("t0k")))
	c.AddRequestInterceptor(api.RequestID())
	c.AddResponseInterceptor(api.LogResponses(nil))

	env, err := api.Get[map[string]string](context.Background(), c, "/", api.RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0k", env.Content["auth"])
	assert.Len(t, env.Content["rid"], 36)

	env, err = api.Get[map[string]string](context.Background(), c, "/", api.RequestOptions{
		Headers: map[string]string{"Authorization": "Basic x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Basic x", env.Content["auth"])
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestErrorEnvelope(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  map[string]any{"email": []string{"Email sudah dipakai"}, "name": "Wajib diisi"},
		})
	})

	_, err := c.Do(context.Background(), "/users", api.RequestOptions{Method: http.MethodPost})
	env := api.ErrorEnvelope(err)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, map[string]string{"email": "Email sudah dipakai", "name": "Wajib diisi"}, api.FieldErrors(err))

	env = api.ErrorEnvelope(errors.New(""))
	assert.Equal(t, "Something went wrong", env.Message)
	env = api.ErrorEnvelope(errors.New("offline"))
	assert.True(t, strings.HasPrefix(env.Message, "offline"))
}
