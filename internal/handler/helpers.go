package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/cardkeep/internal/middleware"
	"github.com/xxxsen/cardkeep/internal/pkg/errcode"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
	"github.com/xxxsen/cardkeep/internal/pkg/response"
)

func getOwner(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextOwnerKey)
	owner, _ := value.(string)
	return owner
}

func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrDuplicateUser):
		response.Error(c, http.StatusBadRequest, errcode.ErrDuplicateUser, "Email already registered")
	case errors.Is(err, appErr.ErrInvalidCredentials):
		response.Unauthorized(c, errcode.ErrInvalidCredentials, "Invalid credentials")
	case errors.Is(err, appErr.ErrExpiredToken):
		response.Unauthorized(c, errcode.ErrTokenExpired, "Token expired")
	case errors.Is(err, appErr.ErrInvalidToken):
		response.Unauthorized(c, errcode.ErrTokenInvalid, "Invalid token")
	case errors.Is(err, appErr.ErrUnknownUser):
		response.Error(c, http.StatusNotFound, errcode.ErrUnknownUser, "Invalid User")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "Card not found")
	default:
		requestID, _ := c.Get(middleware.ContextRequestIDKey)
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("owner", getOwner(c)),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}

func invalidRequest(c *gin.Context, err error) {
	logutil.GetLogger(c.Request.Context()).Debug("invalid request body",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
}
