package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/model"
	"loopline.app/server/internal/service"
)

type contextKey string

const (
	SessionCookieName  = "loopline_session"
	SessionTokenHeader = "X-Session-Token"
	adminKeyHeader     = "X-Admin-Key"

	userContextKey      contextKey = "user"
	sessionIDContextKey contextKey = "session_id"
	adminContextKey     contextKey = "is_admin"
)

// RequireAuth validates the session token (cookie first, then header) and
// attaches the user and session row ID to the request context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := sessionTokenFrom(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, session, err := authService.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				clearSessionCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, sessionIDContextKey, session.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin gates the moderation console behind a static API key.
func RequireAdmin(adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
			return
		}

		key := c.GetHeader(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(adminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin key"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), adminContextKey, true)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

func GetSessionID(ctx context.Context) int64 {
	sessionID, _ := ctx.Value(sessionIDContextKey).(int64)
	return sessionID
}

func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(adminContextKey).(bool)
	return isAdmin
}

func sessionTokenFrom(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	header := c.GetHeader(SessionTokenHeader)
	if header == "" {
		return "", http.ErrNoCookie
	}
	return header, nil
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		false,
		true,
	)
}
