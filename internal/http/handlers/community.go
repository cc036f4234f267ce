package handlers

import (
	"net/http"

	"krishilink/internal/domain/models"
	"krishilink/internal/services"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	Service services.CommunityService
}

// GET /api/community/questions
func (h CommunityHandler) List(c *gin.Context) {
	items, page, err := h.Service.List(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": items, "pagination": page})
}

// GET /api/community/questions/:id
func (h CommunityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "question")
	if !ok {
		return
	}
	q, err := h.Service.View(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/community/questions
func (h CommunityHandler) Ask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.QuestionInput
	if !bindJSON(c, &in) {
		return
	}
	q, err := h.Service.Ask(c.Request.Context(), p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// POST /api/community/questions/:id/answers
func (h CommunityHandler) Answer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "question")
	if !ok {
		return
	}
	var in models.AnswerInput
	if !bindJSON(c, &in) {
		return
	}
	q, err := h.Service.Answer(c.Request.Context(), p, id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// DELETE /api/community/questions/:id
func (h CommunityHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "question")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
