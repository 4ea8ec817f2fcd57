// Package session owns the "who is logged in" state: it restores a
// persisted identity at startup, performs login/logout against the
// backend, and is the only writer of the persisted identity and token
// material. Every other component receives the store as an injected
// dependency and only reads from it.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/api"
	"crmdesk/internal/platform/state"
)

// Session is the authenticated actor as the client sees it.
type Session struct {
	ID         api.ID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Result reports a login attempt. Failures carry a human-readable
// message; they are never returned as errors.
type Result struct {
	Success bool
	Error   string
}

type Store struct {
	mu         sync.RWMutex
	current    *Session
	baseURL    string
	httpClient *http.Client
	store      state.Store
	log        *logrus.Logger

	// allowOfflineFallback enables the built-in identity set when the
	// backend is unreachable. See fallback.go; off in production.
	allowOfflineFallback bool

	onExpired []func()
}

type Option func(*Store)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Store) { s.httpClient = httpClient }
}

func WithOfflineFallback(enabled bool) Option {
	return func(s *Store) { s.allowOfflineFallback = enabled }
}

func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

func New(baseURL string, store state.Store, opts ...Option) *Store {
	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		store:      store,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active session, or nil when logged out.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Token returns the persisted access token, or "" when absent. Wired
// into the api client as its token source.
func (s *Store) Token() string {
	value, ok, err := s.store.Get(state.KeyToken)
	if err != nil || !ok {
		return ""
	}
	return value
}

// Restore loads a previously persisted identity without re-validating
// it against the backend. Called once at startup.
func (s *Store) Restore() {
	raw, ok, err := s.store.Get(state.KeyUser)
	if err != nil {
		s.log.WithError(err).Warn("reading persisted session failed")
		return
	}
	if !ok {
		return
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.log.WithError(err).Warn("persisted session is corrupt, discarding")
		_ = s.store.Delete(state.KeyUser)
		return
	}
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	s.log.WithField("email", sess.Email).Debug("session restored")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *struct {
		ID         api.ID `json:"id"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		Department string `json:"department"`
	} `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`

	Detail  string `json:"detail"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

// Login authenticates against the backend. The email is trimmed and
// lowercased, the password only trimmed, before anything is sent.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	payload, _ := json.Marshal(loginRequest{Email: email, Password: password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/accounts/users/login", bytes.NewReader(payload))
	if err != nil {
		return Result{Error: "Invalid email or password."}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.WithError(err).Warn("login: backend unreachable")
		return s.fallbackLogin(email, password)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var body loginResponse
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 && body.User != nil {
		name := strings.TrimSpace(body.User.FirstName + " " + body.User.LastName)
		if body.User.FirstName == "" {
			name = body.User.Username
		}
		sess := Session{
			ID:         body.User.ID,
			Name:       name,
			Email:      body.User.Email,
			Role:       body.User.Role,
			Department: body.User.Department,
		}
		s.activate(sess, body.Access, body.Refresh)
		return Result{Success: true}
	}

	message := firstNonEmpty(body.Detail, body.Message, body.Err)
	if message == "" {
		message = "Invalid email or password."
	}
	s.log.WithField("status", resp.StatusCode).Info("login rejected by backend")
	return Result{Error: message}
}

// Logout clears the current session and every persisted identity or
// token record, unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	for _, key := range []string{state.KeyUser, state.KeyToken, state.KeyRefreshToken} {
		if err := s.store.Delete(key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("clearing persisted state failed")
		}
	}
}

// Expire is the authentication-rejected path: same clearing as Logout,
// then the registered expiry callbacks run so the UI returns to the
// login screen. Wired into the api client's unauthorized hook.
func (s *Store) Expire() {
	s.Logout()
	for _, callback := range s.onExpired {
		callback()
	}
}

// OnExpired registers a callback for forced logouts. Registration is
// expected during startup wiring, before any requests are in flight.
func (s *Store) OnExpired(callback func()) {
	s.onExpired = append(s.onExpired, callback)
}

func (s *Store) activate(sess Session, access, refresh string) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	encoded, err := json.Marshal(sess)
	if err == nil {
		if err := s.store.Set(state.KeyUser, string(encoded)); err != nil {
			s.log.WithError(err).Warn("persisting session failed")
		}
	}
	if access != "" {
		if err := s.store.Set(state.KeyToken, access); err != nil {
			s.log.WithError(err).Warn("persisting access token failed")
		}
	}
	if refresh != "" {
		if err := s.store.Set(state.KeyRefreshToken, refresh); err != nil {
			s.log.WithError(err).Warn("persisting refresh token failed")
		}
	}
	s.log.WithFields(logrus.Fields{"email": sess.Email, "role": sess.Role}).Info("logged in")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
