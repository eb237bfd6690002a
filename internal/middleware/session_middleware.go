package middleware

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
)

// SessionIDKey is the gin context key holding the browser session id.
const SessionIDKey = "session_id"

// SessionMiddleware identifies the browser with a cookie so flash messages
// reach the page that triggered them. A missing or malformed cookie is
// replaced with a fresh id. The cookie lives as long as the browser session.
func SessionMiddleware(cookieName string) gin.HandlerFunc {
    return func(c *gin.Context) {
        sid, err := c.Cookie(cookieName)
        if err != nil || uuid.Validate(sid) != nil {
            sid = uuid.New().String()
            c.SetSameSite(http.SameSiteLaxMode)
            c.SetCookie(cookieName, sid, 0, "/", "", false, true)
        }
        c.Set(SessionIDKey, sid)
        c.Next()
    }
}

// SessionID returns the session id set by SessionMiddleware.
func SessionID(c *gin.Context) string {
    return c.GetString(SessionIDKey)
}
