package handlers

import (
	"net/http"

	"krishilink/internal/auth"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service services.AuthService
	Issuer  auth.Issuer
}

// establish binds the user to the client and builds the response body.
func (h AuthHandler) establish(c *gin.Context, u *models.User, message string) (gin.H, error) {
	extra, err := h.Issuer.Establish(c.Writer, c.Request, services.Principal(u))
	if err != nil {
		return nil, domain.InternalError{Msg: "could not establish session", Err: err}
	}
	body := gin.H{"message": message, "user": u.ToPublic()}
	for k, v := range extra {
		body[k] = v
	}
	return body, nil
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var in models.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Service.Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body, err := h.establish(c, u, "User registered successfully")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, body)
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var in models.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Service.Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body, err := h.establish(c, u, "Login successful")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// POST /api/auth/logout
func (h AuthHandler) Logout(c *gin.Context) {
	if err := h.Issuer.Revoke(c.Writer, c.Request); err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "could not end session", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// POST /api/auth/refresh exists only for token issuers.
func (h AuthHandler) Refresh(c *gin.Context) {
	refresher, ok := h.Issuer.(auth.Refresher)
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", "Token refresh is not available")
		return
	}
	var in models.RefreshInput
	if !bindJSON(c, &in) {
		return
	}
	pair, err := refresher.Refresh(in.RefreshToken)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body := gin.H{"message": "Token refreshed"}
	for k, v := range pair {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// GET /api/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := h.Service.Me(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.ToPublic()})
}

// PUT /api/auth/profile
func (h AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in models.ProfileUpdate
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Service.UpdateProfile(c.Request.Context(), p, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": u.ToPublic()})
}
