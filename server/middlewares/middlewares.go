package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/Luismorlan/newsreader/auth"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "sub"

	rateLimitPrefix = "newsreader_limiter"
)

// TokenVerifier turns a bearer token into the identity it carries.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// JWT middleware reads "Authorization: Bearer <token>", verifies it and
// stores the user's id under UserIDKey. It aborts with 401 when the header is
// missing or the token is invalid (bad signature or expired).
func JWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, err := verifier.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, claims.Id)
		c.Next()
	}
}

// UserID returns the id set by JWT. Only valid on authenticated routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// NewRateLimitStore shares counters through redis when a client is given, so
// limits hold across replicas. Otherwise counters are per process.
func NewRateLimitStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStore(), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: 3,
	})
}

// RateLimit allows perMinute requests per client ip and answers 429 above it.
func RateLimit(store limiter.Store, perMinute int64) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}
	return mgin.NewMiddleware(limiter.New(store, rate))
}

// Logger logs one line per request through the shared logrus entry.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if userID := UserID(c); userID != "" {
			fields["user_id"] = userID
		}
		entry := Log.WithFields(fields)
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request served")
	}
}
