package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/services"
	"krishilink/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ListingHandler struct {
	Service services.ListingService
}

// bindListing accepts a JSON body, or a multipart form whose "payload" field
// holds the JSON and whose "images" fields hold the uploads.
func bindListing(c *gin.Context) (models.ListingInput, []*multipart.FileHeader, error) {
	var in models.ListingInput
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, nil, bindError(err)
		}
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, domain.ValidationError{Msg: "Invalid multipart form", Err: err}
	}
	payload := strings.TrimSpace(c.PostForm("payload"))
	if payload == "" {
		return in, nil, domain.ValidationError{Field: "payload", Msg: "payload is required"}
	}
	if err := binding.JSON.BindBody([]byte(payload), &in); err != nil {
		return in, nil, bindError(err)
	}
	files := form.File["images"]
	if err := storage.Check(files); err != nil {
		return in, nil, err
	}
	return in, files, nil
}

// GET /api/listings
func (h ListingHandler) List(c *gin.Context) {
	items, page, err := h.Service.List(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items, "pagination": page})
}

// GET /api/listings/mine
func (h ListingHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, page, err := h.Service.Mine(c.Request.Context(), p, queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items, "pagination": page})
}

// GET /api/listings/:id
func (h ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}
	l, err := h.Service.View(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// POST /api/listings
func (h ListingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	in, files, err := bindListing(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	l, err := h.Service.Create(c.Request.Context(), p, in, files)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/listings/:id
func (h ListingHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}
	in, files, err := bindListing(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	l, err := h.Service.Update(c.Request.Context(), p, id, in, files)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/listings/:id
func (h ListingHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p, id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

// POST /api/listings/:id/contact
func (h ListingHandler) Contact(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}
	contact, err := h.Service.Contact(c.Request.Context(), p, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seller contact details", "contact": contact})
}
