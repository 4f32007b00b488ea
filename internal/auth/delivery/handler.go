package delivery

import (
	"net/http"

	authdto "leafscan-backend/internal/auth/dto"
	"leafscan-backend/internal/auth/usecase"
	"leafscan-backend/pkg/apperr"
	"leafscan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Signup creates an account and returns a token
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req authdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("Name, email and password are required"))
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a token
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("Email and password are required"))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUsecase.CurrentUser(c.Request.Context(), c.GetString(ContextUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
