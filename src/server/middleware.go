package server

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	app "socialserv/src/app"
)

// ContextUserKey holds the authenticated user's id in the gin context.
const ContextUserKey = "user"

// bearerToken pulls the credential out of "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired verifies the access token without touching storage.
// Expired tokens get 401 so clients know to refresh; everything else
// that fails verification gets 403.
func AuthRequired(tokens *app.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "missing access token"})
			return
		}
		userID, err := tokens.ParseAccess(token)
		if err != nil {
			if app.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "access token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid access token"})
			return
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// RateLimit throttles per client IP with a token bucket each.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = l
		}
		return l
	}
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
