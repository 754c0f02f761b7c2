package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/application/identity"
	"github.com/fabworks/backend/internal/application/workforce"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	identity  *identity.Service
	workforce *workforce.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identitySvc *identity.Service, workforceSvc *workforce.Service) *AuthHandler {
	return &AuthHandler{identity: identitySvc, workforce: workforceSvc}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type staffResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Login authenticates a staff member and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pair, member, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"tokens": pair,
		"staff": staffResponse{
			ID:    member.GetID().String(),
			Email: member.Email,
			Name:  member.Name,
			Admin: member.Admin,
		},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pair, err := h.identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"tokens": pair})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the caller's tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	accessToken := ""
	if header := c.GetHeader(middleware.AuthHeaderKey); len(header) > len(middleware.BearerPrefix) {
		accessToken = header[len(middleware.BearerPrefix):]
	}

	if err := h.identity.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the authenticated staff member
func (h *AuthHandler) Me(c *gin.Context) {
	staffID := middleware.GetStaffID(c)
	if staffID == uuid.Nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	member, err := h.workforce.GetStaff(c.Request.Context(), staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staffResponse{
		ID:    member.GetID().String(),
		Email: member.Email,
		Name:  member.Name,
		Admin: member.Admin,
	})
}
