// Package middleware provides the gin middleware that gives every request an
// explicit session object and guards authenticated routes.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/platform/token"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "shop_session"

	// RememberCookie carries the raw persistent-login secret.
	RememberCookie = "shop_remember"

	// ContextSession is the gin context key holding the *entity.Session.
	ContextSession = "session"

	// SessionTTL is the server-side lifetime of a browser session.
	SessionTTL = 24 * time.Hour
)

// RememberAuthenticator verifies and rotates persistent-login tokens.
// Following Go convention: the interface is defined by the consumer
// (middleware), not the provider (usecase).
type RememberAuthenticator interface {
	ConsumeRememberToken(ctx context.Context, raw string) (*entity.User, string, error)
}

// Session loads the request's session from the store, creating a fresh one
// when the cookie is missing or stale. A fresh session additionally attempts
// a remember-me auto-login before the request proceeds. The session is
// injected into the gin context; handlers persist their own mutations.
func Session(store usecase.SessionStore, remember RememberAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *entity.Session
		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			found, err := store.FindByID(ctx, id)
			switch {
			case err == nil && !found.IsExpired():
				sess = found
			case err != nil && !errors.Is(err, usecase.ErrSessionNotFound):
				slog.Error("session lookup failed", "error", err)
			}
		}

		if sess == nil {
			id, err := token.New()
			if err != nil {
				slog.Error("failed to create session token", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "a system error occurred"})
				return
			}
			now := time.Now()
			sess = &entity.Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(SessionTTL)}

			// A fresh session with a persistent-login cookie gets one shot at
			// auto-login. The token rotates on success and is dropped on failure.
			if remember != nil {
				if raw, err := c.Cookie(RememberCookie); err == nil && raw != "" {
					user, newRaw, rerr := remember.ConsumeRememberToken(ctx, raw)
					switch {
					case rerr == nil:
						sess.StartAuthenticated(user)
						if newRaw != "" {
							SetRememberCookie(c, newRaw)
						} else {
							ClearRememberCookie(c)
						}
					case errors.Is(rerr, usecase.ErrInvalidRememberToken):
						ClearRememberCookie(c)
					}
				}
			}

			if err := store.Save(ctx, sess); err != nil {
				slog.Error("failed to save new session", "error", err)
			}
			c.SetCookie(SessionCookie, sess.ID, int(SessionTTL.Seconds()), "/", "", false, true)
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// FromContext returns the session injected by the Session middleware, or nil.
func FromContext(c *gin.Context) *entity.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*entity.Session)
	return sess
}

// AuthRequired redirects unauthenticated requests to the login page.
// The redirect is silent: reaching a protected page logged out is a state
// mismatch, not a user error.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil || !sess.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired redirects authenticated requests lacking the given role to the
// customer landing page.
func RoleRequired(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil || !sess.HasRole(role) {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetRememberCookie installs a fresh persistent-login secret.
func SetRememberCookie(c *gin.Context, raw string) {
	c.SetCookie(RememberCookie, raw, int(usecase.RememberTokenTTL.Seconds()), "/", "", false, true)
}

// ClearRememberCookie drops the persistent-login cookie.
func ClearRememberCookie(c *gin.Context) {
	c.SetCookie(RememberCookie, "", -1, "/", "", false, true)
}

// ClearSessionCookie drops the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
