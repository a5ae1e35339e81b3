package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
)

// GuestIDHeader lets non-browser clients carry their guest identity explicitly
const GuestIDHeader = "X-Guest-ID"

const guestSessionKey = "guest_id"

// GuestSession installs the signed cookie session that stores the guest id
func GuestSession(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: sameSiteMode(cfg.SameSite),
	})
	return sessions.Sessions(cfg.Name, store)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// GuestIdentity resolves the guest id for the request. The session cookie
// wins over the X-Guest-ID header. Anonymous callers without either get a
// fresh id persisted in the session. Must run after GuestSession and OptionalAuth.
func GuestIdentity(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		guestID, _ := sess.Get(guestSessionKey).(string)
		if guestID == "" {
			if h := strings.TrimSpace(c.GetHeader(GuestIDHeader)); isGuestID(h) {
				guestID = h
			}
		}
		if guestID == "" && GetJWTClaims(c) == nil {
			guestID = uuid.NewString()
			sess.Set(guestSessionKey, guestID)
			if err := sess.Save(); err != nil {
				log.Warn("Failed to persist guest session", zap.Error(err))
			}
		}

		if guestID != "" {
			c.Set(GuestIDKey, guestID)
			c.Header(GuestIDHeader, guestID)
			c.Request = c.Request.WithContext(logger.WithGuestID(c.Request.Context(), guestID))
		}
		c.Next()
	}
}

// GetGuestID returns the guest id resolved by GuestIdentity
func GetGuestID(c *gin.Context) string {
	return c.GetString(GuestIDKey)
}

// ClearGuestID drops the guest id from the session once it has been migrated
func ClearGuestID(c *gin.Context) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	sess := sessions.Default(c)
	sess.Delete(guestSessionKey)
	_ = sess.Save()
	c.Set(GuestIDKey, "")
}

func isGuestID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
