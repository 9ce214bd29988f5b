package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"donation_hub/internal/auth"
	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/resp"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth accepts a bearer token in the Authorization header, or a "token" query
// parameter for websocket upgrades (browsers cannot set headers on those).
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "malformed authorization header"})
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "missing token"})
			return
		}

		claims, err := auth.VerifyToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "invalid token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "invalid subject"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse{Code: resp.CodeForbidden, Message: "admin only"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == auth.RoleAdmin
}
