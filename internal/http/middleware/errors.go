package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error envelope shared by middleware and handlers.
func ErrorBody(c *gin.Context, code, message string) gin.H {
	body := gin.H{
		"error":   message,
		"code":    code,
		"message": message,
	}
	if reqID := GetRequestID(c); reqID != "" {
		body["request_id"] = reqID
	}
	return body
}

func abort(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorBody(c, code, message))
}
