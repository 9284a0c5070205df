package handler

import (
	identityapp "github.com/gestor/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a request to bootstrap an organization
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" binding:"required,min=1,max=200"`
	Document         string `json:"document" binding:"omitempty,max=30"`
	Username         string `json:"username" binding:"required,min=3,max=100"`
	Password         string `json:"password" binding:"required,min=6,max=100"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	Email            string `json:"email" binding:"omitempty,email"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      Register a new organization
// @Description  Create an organization with its first user and log them in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} dto.Response{data=identityapp.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		OrganizationName: req.OrganizationName,
		Document:         req.Document,
		Username:         req.Username,
		Password:         req.Password,
		Name:             req.Name,
		Email:            req.Email,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate with username and password, returning a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} dto.Response{data=identityapp.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Me godoc
// @Summary      Get current user
// @Description  Return the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}
