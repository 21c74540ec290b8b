package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	handlers "github.com/oksasatya/go-ddd-social-accounts/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
)

// AuthModule exposes the public account endpoints:
// POST /api/users, POST /api/users/login
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	// per IP and path, so registration and login have separate budgets
	limiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitAuthMax, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", limiter, m.Handler.Register)
	rg.POST("/users/login", limiter, m.Handler.Login)
}
