package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/cardkeep/internal/pkg/errcode"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
	"github.com/xxxsen/cardkeep/internal/pkg/response"
)

const ContextOwnerKey = "owner"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuth resolves the bearer token into the request owner. Expired and
// invalid tokens both abort with 401 but keep distinct codes.
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, errcode.ErrUnauthorized, "Not authenticated")
			c.Abort()
			return
		}
		owner, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Debug("reject bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, appErr.ErrExpiredToken) {
				response.Unauthorized(c, errcode.ErrTokenExpired, "Token expired")
			} else {
				response.Unauthorized(c, errcode.ErrTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}
		c.Set(ContextOwnerKey, owner)
		c.Next()
	}
}
