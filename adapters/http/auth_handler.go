package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/auth"
)

type AuthHandler struct {
	repo   *content.Repository
	jwtSvc *auth.JWTService
}

func NewAuthHandler(repo *content.Repository, jwtSvc *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		repo:   repo,
		jwtSvc: jwtSvc,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	u, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
			return
		}
		c.Error(err)
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
		return
	}

	token, err := h.jwtSvc.GenerateToken(u.ID, u.Email)
	if err != nil {
		c.Error(apperror.NewInternal("generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
	})
}
