// Package session keeps the logged in account of each profile.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/config/data"
	"github.com/absensi/absensi/internal/dao"
	"gopkg.in/ini.v1"
)

// Error represents a session error.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrNoSession is returned when a command needs a logged in account.
const ErrNoSession = Error("not logged in, run `absensi login` first")

// Session is the authentication state of one profile.
type Session struct {
	IsLogin     bool
	AccessToken string
	User        dao.User
	LoggedInAt  time.Time
}

// Listener is told about every session change.
type Listener func(Session)

// record is the INI layout of a session.
type record struct {
	AccessToken string    `ini:"access_token"`
	UserID      string    `ini:"user_id"`
	Name        string    `ini:"name"`
	Email       string    `ini:"email"`
	PhoneNumber string    `ini:"phone_number"`
	Division    string    `ini:"division"`
	Role        string    `ini:"role"`
	LoggedInAt  time.Time `ini:"logged_in_at"`
}

func (r record) session() Session {
	return Session{
		IsLogin:     r.AccessToken != "",
		AccessToken: r.AccessToken,
		User: dao.User{
			ID:          r.UserID,
			Name:        r.Name,
			Email:       r.Email,
			PhoneNumber: r.PhoneNumber,
			Division:    r.Division,
			Role:        r.Role,
		},
		LoggedInAt: r.LoggedInAt,
	}
}

func newRecord(s Session) record {
	return record{
		AccessToken: s.AccessToken,
		UserID:      s.User.ID,
		Name:        s.User.Name,
		Email:       s.User.Email,
		PhoneNumber: s.User.PhoneNumber,
		Division:    s.User.Division,
		Role:        s.User.Role,
		LoggedInAt:  s.LoggedInAt,
	}
}

// Store persists sessions in an INI file, one section per profile.
type Store struct {
	path      string
	profile   string
	current   Session
	listeners []Listener
	log       *slog.Logger
	now       func() time.Time
	mx        sync.RWMutex
}

// NewStore returns the store of the given profile. A nil logger falls back
// to the default one.
func NewStore(path, profile string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		path:    path,
		profile: profile,
		log:     log.With("component", "session", "profile", profile),
		now:     time.Now,
	}
}

// Profile returns the profile the store is bound to.
func (s *Store) Profile() string {
	return s.profile
}

// Load reads the profile session. A missing file leaves the store logged out.
func (s *Store) Load() error {
	f, err := s.file()
	if err != nil {
		return err
	}

	var r record
	if sec, err := f.GetSection(s.profile); err == nil {
		if err := sec.MapTo(&r); err != nil {
			return fmt.Errorf("read session %q: %w", s.profile, err)
		}
	}

	s.mx.Lock()
	s.current = r.session()
	s.mx.Unlock()

	return nil
}

// Login stores the account returned by a successful login.
func (s *Store) Login(resp dao.LoginResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("login: empty access token")
	}
	sess := Session{
		IsLogin:     true,
		AccessToken: resp.AccessToken,
		User:        resp.User,
		LoggedInAt:  s.now().UTC().Truncate(time.Second),
	}
	if err := s.persist(&sess); err != nil {
		return err
	}
	s.log.Info("logged in", "user", resp.User.Email)
	s.set(sess)

	return nil
}

// Logout forgets the profile session.
func (s *Store) Logout() error {
	if err := s.persist(nil); err != nil {
		return err
	}
	s.log.Info("logged out")
	s.set(Session{})

	return nil
}

// Current returns the active session.
func (s *Store) Current() Session {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.current
}

// Require returns the active session or ErrNoSession.
func (s *Store) Require() (Session, error) {
	sess := s.Current()
	if !sess.IsLogin {
		return sess, ErrNoSession
	}
	return sess, nil
}

// Token returns the access token of the active session.
func (s *Store) Token() string {
	return s.Current().AccessToken
}

// AddListener registers a session change listener.
func (s *Store) AddListener(l Listener) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.listeners = append(s.listeners, l)
}

// Profiles lists the profiles having a stored session.
func (s *Store) Profiles() ([]string, error) {
	f, err := s.file()
	if err != nil {
		return nil, err
	}
	var pp []string
	for _, name := range f.SectionStrings() {
		if name != ini.DefaultSection {
			pp = append(pp, name)
		}
	}
	sort.Strings(pp)

	return pp, nil
}

func (s *Store) set(sess Session) {
	s.mx.Lock()
	s.current = sess
	ll := append([]Listener(nil), s.listeners...)
	s.mx.Unlock()

	for _, l := range ll {
		l(sess)
	}
}

func (s *Store) file() (*ini.File, error) {
	f, err := ini.LooseLoad(s.path)
	if err != nil {
		return nil, fmt.Errorf("load credentials %q: %w", s.path, err)
	}
	return f, nil
}

// persist writes sess in the profile section, or removes the section when
// sess is nil.
func (s *Store) persist(sess *Session) error {
	f, err := s.file()
	if err != nil {
		return err
	}
	f.DeleteSection(s.profile)
	if sess != nil {
		sec, err := f.NewSection(s.profile)
		if err != nil {
			return fmt.Errorf("credentials section %q: %w", s.profile, err)
		}
		if err := sec.ReflectFrom(ptr(newRecord(*sess))); err != nil {
			return fmt.Errorf("write session %q: %w", s.profile, err)
		}
	}

	if err := data.EnsureFullPath(s.path, 0700); err != nil {
		return err
	}
	if err := f.SaveTo(s.path); err != nil {
		return fmt.Errorf("save credentials %q: %w", s.path, err)
	}

	return os.Chmod(s.path, 0600)
}

func ptr[T any](v T) *T {
	return &v
}

// ExpireOnUnauthorized logs the profile out when the backend rejects its
// token.
func ExpireOnUnauthorized(s *Store) api.ResponseInterceptor {
	return api.ResponseInterceptorFunc(func(_ context.Context, resp *http.Response) (*http.Response, error) {
		if resp.StatusCode != http.StatusUnauthorized || !s.Current().IsLogin {
			return resp, nil
		}
		s.log.Warn("session expired", "status", resp.StatusCode)
		if err := s.Logout(); err != nil {
			s.log.Error("drop expired session", "error", err)
		}
		return resp, nil
	})
}
