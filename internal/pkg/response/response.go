package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

type Message struct {
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, code int, detail string) {
	c.JSON(status, APIError{Code: code, Detail: detail})
}

// Unauthorized writes a 401 carrying the bearer challenge header.
func Unauthorized(c *gin.Context, code int, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	Error(c, http.StatusUnauthorized, code, detail)
}
