package handlers

import (
	"net/http"
	"strconv"

	"krishilink/internal/domain"
	"krishilink/internal/http/middleware"
	"krishilink/internal/query"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Msg: "Request body is required"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, bindError(err))
		return false
	}
	return true
}

// principal returns the caller set by middleware.RequireAuth. Routes that
// reach it without auth are a wiring bug, answered with 401.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
	}
	return p, ok
}

func pathID(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.NotFoundError{Resource: resource, Err: err})
		return 0, false
	}
	return id, true
}

func queryParams(c *gin.Context) map[string]string {
	return query.FromValues(c.Request.URL.Query())
}
