package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/observability"
)

const (
	defaultSessionCookie = "rf_session"
	defaultSessionMaxAge = 30 * 24 * time.Hour
)

// ErrInvalidSessionConfig is returned by NewSessionManager for unusable keys.
var ErrInvalidSessionConfig = errors.New("session: invalid config")

// SessionData is the payload stored in the signed session cookie. The cart itself lives
// server side, keyed by ID.
type SessionData struct {
	ID        string    `json:"id"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// SessionConfig controls cookie encoding.
type SessionConfig struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte
	Secure     bool
	MaxAge     time.Duration
	Now        func() time.Time
}

// SessionManager reads and writes the session cookie.
type SessionManager struct {
	cfg   SessionConfig
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewSessionManager builds a manager. An empty hash key is replaced by a random one, which
// means sessions do not survive a restart.
func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if len(cfg.HashKey) == 0 {
		cfg.HashKey = securecookie.GenerateRandomKey(64)
		if cfg.HashKey == nil {
			return nil, fmt.Errorf("%w: cannot generate hash key", ErrInvalidSessionConfig)
		}
	}
	if len(cfg.HashKey) < 32 {
		return nil, fmt.Errorf("%w: hash key must be at least 32 bytes", ErrInvalidSessionConfig)
	}
	switch len(cfg.BlockKey) {
	case 0:
		// securecookie encrypts whenever the block key is non-nil
		cfg.BlockKey = nil
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: block key must be 16, 24 or 32 bytes", ErrInvalidSessionConfig)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultSessionCookie
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultSessionMaxAge
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.MaxAge.Seconds()))

	return &SessionManager{cfg: cfg, codec: codec, now: now}, nil
}

// Middleware loads or initializes a session and stores it in request context. The cookie is
// written just before the response header when the session is new or changed.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := m.read(r)
		if sd.ID == "" {
			now := m.now().UTC()
			sd = &SessionData{
				ID:        randID(),
				CSRFToken: newCSRFToken(),
				CreatedAt: now,
				UpdatedAt: now,
				dirty:     true,
			}
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)

		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				m.write(w, r, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// nothing written (e.g. HEAD); persist now
		if !rw.Written() && (sd.dirty || !fromCookie) {
			m.write(w, r, sd)
		}
	})
}

// GetSession returns session data from context. Without the session middleware it returns
// an empty session whose ID is blank.
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing before the response goes out.
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

func (m *SessionManager) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := m.codec.Decode(m.cfg.CookieName, c.Value, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (m *SessionManager) write(w http.ResponseWriter, r *http.Request, sd *SessionData) {
	encoded, err := m.codec.Encode(m.cfg.CookieName, sd)
	if err != nil {
		observability.FromContext(r.Context()).Error("session cookie encode failed", zap.Error(err))
		return
	}
	sd.dirty = false
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.cfg.MaxAge.Seconds()),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
