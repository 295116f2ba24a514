package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	"github.com/bakeshop-mx/storefront-client/internal/users"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
	"github.com/bakeshop-mx/storefront-client/pkg/session"
	"github.com/go-playground/validator/v10"
)

// ServiceParams names the dependencies of the session service.
type ServiceParams struct {
	Gateway gateway.Gateway
	Store   session.Store
	Logger  *logger.Logger
}

// Service owns the bearer token and current-user identity. It is the only
// writer of the durable session storage; every other component reads the
// token through Token().
type Service struct {
	gw       gateway.Gateway
	store    session.Store
	logg     *logger.Logger
	validate *validator.Validate
	now      func() time.Time

	mu    sync.RWMutex
	token string
	user  *users.User

	onInvalidated func()
}

// NewService builds the session service and restores any persisted session.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "gateway required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "session store required")
	}
	s := &Service{
		gw:       params.Gateway,
		store:    params.Store,
		logg:     params.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
	s.restoreFromStorage(ctx)
	return s, nil
}

// OnSessionInvalidated registers the hook invoked when an authorization
// failure tears the session down, so the caller can redirect to login.
func (s *Service) OnSessionInvalidated(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidated = fn
}

// Login exchanges credentials for a session and persists it.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := s.validate.Struct(creds); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid credentials")
	}

	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "auth/login",
		Body:   creds,
	})
	if err != nil {
		return err
	}

	var login LoginResponse
	if err := resp.Decode(&login); err != nil {
		return err
	}
	if login.AccessToken == "" {
		return pkgerrors.New(pkgerrors.CodeUnknown, "login response carried no token")
	}

	s.setSession(ctx, login.AccessToken, &login.User)
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, login.User.ID), "session established")
	}
	return nil
}

// Register creates the account and then logs in with the same credentials.
// Registration alone never yields an authenticated session.
func (s *Service) Register(ctx context.Context, data RegisterData) error {
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if err := s.validate.Struct(data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid registration data")
	}

	if _, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "auth/register",
		Body:   data,
	}); err != nil {
		return err
	}

	return s.Login(ctx, Credentials{Email: data.Email, Password: data.Password})
}

// Logout clears the session. It is idempotent; logging out with no active
// session is a no-op. The server is notified best-effort.
func (s *Service) Logout(ctx context.Context) {
	hadToken := s.Token(ctx) != ""
	s.clearSession(ctx)

	if hadToken {
		if _, err := s.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "auth/logout"}); err != nil && s.logg != nil {
			s.logg.Debug(ctx, "server logout notification failed")
		}
	}
}

// Token returns the current bearer token, re-hydrating from durable storage
// when the in-memory value is absent. Empty means no session.
func (s *Service) Token(ctx context.Context) string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token
	}

	stored, err := s.store.Get(ctx, session.KeyToken)
	if err != nil {
		return ""
	}
	s.mu.Lock()
	s.token = stored
	s.mu.Unlock()
	return stored
}

// IsAuthenticated reports whether a session token exists.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// CurrentUser returns the cached user, falling back to durable storage. A
// nil user alongside a token is the "partially authenticated" state resolved
// by FetchProfile.
func (s *Service) CurrentUser(ctx context.Context) *users.User {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	if user != nil {
		return user
	}

	raw, err := s.store.Get(ctx, session.KeyUser)
	if err != nil {
		return nil
	}
	restored := &users.User{}
	if err := json.Unmarshal([]byte(raw), restored); err != nil {
		return nil
	}
	s.mu.Lock()
	s.user = restored
	s.mu.Unlock()
	return restored
}

// FetchProfile loads the authoritative user record and replaces the cached
// one wholesale. The request is guest tolerant: a 401 here means "not logged
// in" unless the stored token went stale.
func (s *Service) FetchProfile(ctx context.Context) (*users.User, error) {
	resp, err := s.gw.Do(ctx, gateway.Request{
		Method:        http.MethodGet,
		Path:          "users/me",
		GuestTolerant: true,
	})
	if err != nil {
		return nil, err
	}

	user := &users.User{}
	if err := resp.Decode(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	if raw, err := json.Marshal(user); err == nil {
		if err := s.store.Set(ctx, session.KeyUser, string(raw)); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "persisting refreshed user failed")
		}
	}
	return user, nil
}

// HandleResponseError implements gateway.Authorizer. A 401/403 on any
// regular endpoint tears the session down unconditionally. On a guest
// tolerant endpoint, a missing token surfaces as "not logged in" without
// touching state; a present token is stale and is cleared.
func (s *Service) HandleResponseError(ctx context.Context, err error, guestTolerant bool) error {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeAuthExpired {
		return err
	}

	if guestTolerant {
		token := s.Token(ctx)
		if token == "" {
			return pkgerrors.New(pkgerrors.CodeAuthRequired, "not logged in").WithStatus(typed.Status())
		}
		if s.logg != nil && tokenIsExpired(token, s.now()) {
			s.logg.Info(ctx, "stored token expired, clearing session")
		}
	}

	s.clearSession(ctx)
	s.mu.RLock()
	hook := s.onInvalidated
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}
	return err
}

func (s *Service) setSession(ctx context.Context, token string, user *users.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	// The two keys are written together; a failure leaves at most a partial
	// session, which restore treats as valid.
	if err := s.store.Set(ctx, session.KeyToken, token); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "persisting session token failed")
	}
	if raw, err := json.Marshal(user); err == nil {
		if err := s.store.Set(ctx, session.KeyUser, string(raw)); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "persisting session user failed")
		}
	}
}

func (s *Service) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Del(ctx, session.KeyToken, session.KeyUser); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "clearing durable session failed")
	}
}

func (s *Service) restoreFromStorage(ctx context.Context) {
	token, err := s.store.Get(ctx, session.KeyToken)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	raw, err := s.store.Get(ctx, session.KeyUser)
	if err != nil {
		// Token without user: partially authenticated until a profile fetch
		// completes.
		return
	}
	restored := &users.User{}
	if err := json.Unmarshal([]byte(raw), restored); err != nil {
		return
	}
	s.mu.Lock()
	s.user = restored
	s.mu.Unlock()
}
