package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/auth"
	"github.com/kyangwi/portfolio/pkg/logger"
)

const (
	GinContextKeyUserID    = "userID"
	GinContextKeyUserEmail = "userEmail"
)

func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)
		c.Set(GinContextKeyUserEmail, claims.Email)

		c.Next()
	}
}

// ErrorHandler turns errors queued with c.Error into JSON responses after
// the handler chain runs. Unknown errors become a plain 500 so internals
// never leak.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		status := apperror.ToHTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("unhandled request error", err, zap.String("path", c.FullPath()))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": http.StatusText(status)})
	}
}

func GetUserIDFromGinContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func GetUserEmailFromGinContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(GinContextKeyUserEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
