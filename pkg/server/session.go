package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
)

// SessionName is the name of the admin session cookie.
const SessionName = "bethel-admin"

// Session value keys.
const (
	sessionKeyLoggedInAt = "logged_in_at"
	sessionKeyExpiresAt  = "expires_at"
)

const adminSessionContextKey = "admin_session"

// AdminSession is the state held by a logged-in admin cookie
type AdminSession struct {
	LoggedInAt time.Time `json:"loggedInAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now
func (s AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type sessionManager struct {
	store        *sessions.CookieStore
	passwordHash [sha256.Size]byte
	ttl          time.Duration
	now          func() time.Time
}

// newSessionManager signs cookies with a key derived from the configured secret.
// The cookie is HttpOnly and SameSite=Strict, Secure when configured.
func newSessionManager(cfg config.AdminConfig, now func() time.Time) *sessionManager {
	key := sha256.Sum256([]byte(cfg.SessionSecret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}

	return &sessionManager{
		store:        store,
		passwordHash: sha256.Sum256([]byte(cfg.Password)),
		ttl:          cfg.SessionTTL,
		now:          now,
	}
}

// checkPassword compares digests so neither content nor length leaks through timing
func (m *sessionManager) checkPassword(password string) bool {
	given := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(given[:], m.passwordHash[:]) == 1
}

func (m *sessionManager) start(c echo.Context) (*AdminSession, error) {
	sess, _ := m.store.Get(c.Request(), SessionName)

	now := m.now().UTC()
	admin := &AdminSession{LoggedInAt: now, ExpiresAt: now.Add(m.ttl)}
	sess.Values[sessionKeyLoggedInAt] = admin.LoggedInAt.Unix()
	sess.Values[sessionKeyExpiresAt] = admin.ExpiresAt.Unix()

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, err
	}
	return admin, nil
}

// load returns the admin session carried by the request, nil when there is none
// or it has expired. An expired cookie is cleared.
func (m *sessionManager) load(c echo.Context) (*AdminSession, bool, error) {
	// a cookie that fails signature checks yields a fresh, empty session
	sess, _ := m.store.Get(c.Request(), SessionName)

	loggedIn, ok1 := sess.Values[sessionKeyLoggedInAt].(int64)
	expires, ok2 := sess.Values[sessionKeyExpiresAt].(int64)
	if !ok1 || !ok2 {
		return nil, false, nil
	}

	admin := &AdminSession{
		LoggedInAt: time.Unix(loggedIn, 0).UTC(),
		ExpiresAt:  time.Unix(expires, 0).UTC(),
	}
	if admin.Expired(m.now()) {
		if err := m.clear(c); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	}
	return admin, false, nil
}

func (m *sessionManager) clear(c echo.Context) error {
	sess, _ := m.store.Get(c.Request(), SessionName)
	delete(sess.Values, sessionKeyLoggedInAt)
	delete(sess.Values, sessionKeyExpiresAt)
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.store.Options.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	return sess.Save(c.Request(), c.Response())
}

// AdminSessionFrom returns the session attached by requireAdmin
func AdminSessionFrom(c echo.Context) (*AdminSession, bool) {
	admin, ok := c.Get(adminSessionContextKey).(*AdminSession)
	return admin, ok
}

// requireAdmin rejects requests without a live admin session
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin, expired, err := s.sessions.load(c)
		if err != nil {
			return err
		}
		if expired {
			s.logger.Debug("Admin session expired", zap.String("path", c.Path()))
			return errSessionExpired
		}
		if admin == nil {
			return errUnauthorized
		}
		c.Set(adminSessionContextKey, admin)
		return next(c)
	}
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if !s.sessions.checkPassword(req.Password) {
		s.logger.Info("Admin login failed", zap.String("remote_ip", c.RealIP()))
		return errInvalidPassword
	}

	admin, err := s.sessions.start(c)
	if err != nil {
		return err
	}

	s.logger.Info("Admin logged in", zap.String("remote_ip", c.RealIP()), zap.Time("expires_at", admin.ExpiresAt))
	return c.JSON(http.StatusOK, admin)
}

func (s *Server) logout(c echo.Context) error {
	if err := s.sessions.clear(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) session(c echo.Context) error {
	admin, _ := AdminSessionFrom(c)
	return c.JSON(http.StatusOK, admin)
}
