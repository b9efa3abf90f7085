// Package mockapi serves an in memory rendition of the backoffice backend,
// demo data included.
package mockapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/metrics"
	"github.com/absensi/absensi/internal/render"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// APIPrefix is the path the backend routes are mounted on.
const APIPrefix = "/api"

type ctxKey struct{}

// Server is the mock backend.
type Server struct {
	users      *collection[dao.User]
	roles      *collection[dao.Role]
	divisions  *collection[dao.Division]
	attendance *collection[dao.Attendance]
	passwords  map[string]string
	tokens     map[string]string
	log        *slog.Logger
	now        func() time.Time
	mx         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock used for attendance dates and times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a server loaded with the demo data.
func New(opts ...Option) *Server {
	s := Server{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}

	users := seedUsers()
	for _, u := range users {
		s.passwords[strings.ToLower(u.Email)] = DemoPassword
	}
	s.users = newCollection[dao.User](dao.UsersRID, render.User{}, validateUser, users)
	s.roles = newCollection[dao.Role](dao.RolesRID, render.Role{}, validateRole, seedRoles())
	s.divisions = newCollection[dao.Division](dao.DivisionsRID, render.Division{}, validateDivision, seedDivisions())
	s.attendance = newCollection[dao.Attendance](dao.AttendanceRID, render.Attendance{}, validateAttendance, seedAttendance(s.now()))

	return &s
}

// Handler returns the instrumented router. The backend lives under
// APIPrefix, metrics and health checks at the root.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Mount(APIPrefix, s.routes())

	return metrics.InstrumentHandler(r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/auth/logout", s.logout)
		r.Get("/auth/me", s.me)
		r.Get("/dashboard/statistics", s.statistics)

		r.Route(dao.AttendanceRID.Path, func(r chi.Router) {
			r.Get("/today", s.today)
			r.Post("/check-in", s.checkIn)
			r.Post("/check-out", s.checkOut)
			r.Post("/sick", s.leave(dao.StatusSick, "Marked as sick leave"))
			r.Post("/permit", s.leave(dao.StatusPermit, "Permit request submitted"))
			s.attendance.routes(r)
		})
		r.Route(dao.UsersRID.Path, s.users.routes)
		r.Route(dao.RolesRID.Path, s.roles.routes)
		r.Route(dao.DivisionsRID.Path, s.divisions.routes)
	})

	return r
}

// authenticate resolves the bearer token to a user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			fail(w, http.StatusUnauthorized, msgUnauthorized, nil)
			return
		}

		s.mx.Lock()
		id, ok := s.tokens[strings.TrimSpace(token)]
		s.mx.Unlock()
		if !ok {
			fail(w, http.StatusUnauthorized, msgUnauthorized, nil)
			return
		}
		u, ok := s.users.find(id)
		if !ok {
			fail(w, http.StatusUnauthorized, msgUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func currentUser(r *http.Request) dao.User {
	u, _ := r.Context().Value(ctxKey{}).(dao.User)
	return u
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dao.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}
	errs := required(nil, "email", req.Email, "Email is required")
	errs = required(errs, "password", req.Password, "Password is required")
	if len(errs) > 0 {
		fail(w, http.StatusUnprocessableEntity, "Validation failed", errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.mx.Lock()
	pwd, ok := s.passwords[email]
	s.mx.Unlock()
	u, found := s.users.findFunc(func(u dao.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !ok || !found || pwd != req.Password {
		s.log.Info("login rejected", "email", email)
		fail(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token := uuid.NewString()
	s.mx.Lock()
	s.tokens[token] = u.ID
	s.mx.Unlock()
	s.log.Info("login", "email", email, "user", u.ID)

	respond(w, http.StatusOK, dao.LoginResponse{AccessToken: token, User: u}, "Login successful")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mx.Lock()
	delete(s.tokens, strings.TrimSpace(token))
	s.mx.Unlock()

	respond(w, http.StatusOK, nil, "Logout successful")
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, currentUser(r), msgSuccess)
}
