package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"surat-portal/pkg/jwt"
	"surat-portal/pkg/redis"
	"surat-portal/pkg/response"
)

// SessionAuth requires a valid session. The token is read from the session
// cookie first, then from "Authorization: Bearer <token>". A revoked token
// is rejected when Redis is available; rdb nil or a Redis error lets the
// token through.
func SessionAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "Sesi tidak valid atau sudah berakhir")
			c.Abort()
			return
		}

		if revoked(c, rdb, claims) {
			response.Unauthorized(c, 10002, "Sesi sudah berakhir")
			c.Abort()
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when one is present and valid, and
// otherwise continues anonymously.
func OptionalAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token != "" {
			if claims, err := jwtMgr.ParseToken(token); err == nil && !revoked(c, rdb, claims) {
				setSession(c, claims)
			}
		}
		c.Next()
	}
}

// RoleAuth allows only the listed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "Akses ditolak")
		c.Abort()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func revoked(c *gin.Context, rdb *redis.Client, claims *jwt.Claims) bool {
	if rdb == nil || claims.ID == "" {
		return false
	}
	blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
	return err == nil && blacklisted
}

func setSession(c *gin.Context, claims *jwt.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("name", claims.Name)
	c.Set("role", claims.Role)
	c.Set("token_id", claims.ID)
	if claims.ExpiresAt != nil {
		c.Set("token_expires_at", claims.ExpiresAt.Time)
	}
}
