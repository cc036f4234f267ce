package handlers

import (
	"net/http"

	"krishilink/internal/domain/models"
	"krishilink/internal/services"

	"github.com/gin-gonic/gin"
)

type ToolHandler struct {
	Service services.ToolService
}

func (h ToolHandler) List(c *gin.Context) {
	items, page, err := h.Service.List(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": items, "pagination": page})
}

func (h ToolHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, page, err := h.Service.Mine(c.Request.Context(), p, queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": items, "pagination": page})
}

func (h ToolHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "tool")
	if !ok {
		return
	}
	t, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h ToolHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.ToolInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Service.Create(c.Request.Context(), p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h ToolHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "tool")
	if !ok {
		return
	}
	var in models.ToolInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Service.Update(c.Request.Context(), p, id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h ToolHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "tool")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tool deleted successfully"})
}
