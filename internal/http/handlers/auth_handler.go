package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/http/handlers/common"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/service"
)

// Authenticator - вход администратора и героя.
type Authenticator interface {
	AdminLogin(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	HeroLogin(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
}

// AuthHandler предоставляет HTTP слой для входа.
type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.auth.AdminLogin)
}

// HeroLogin обрабатывает POST /auth/hero-login.
func (h *AuthHandler) HeroLogin(c *gin.Context) {
	h.login(c, h.auth.HeroLogin)
}

func (h *AuthHandler) login(c *gin.Context, fn func(context.Context, service.LoginInput) (*service.LoginResult, error)) {
	var req dto.LoginRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := fn(c.Request.Context(), service.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.TokenResponse{Token: res.Token, Role: res.Role, HeroID: res.HeroID})
}
