package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	handlers "github.com/oksasatya/go-ddd-social-accounts/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     middleware.TokenParser
}

func NewProfileModule(h *handlers.ProfileHandler, jwt middleware.TokenParser) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	// anonymous reads are limited per IP
	rg.GET("/profiles/:username",
		middleware.OptionalAuth(m.JWT),
		middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), nil),
		m.Handler.Get,
	)

	auth := rg.Group("/profiles/:username")
	auth.Use(
		middleware.RequireAuth(m.JWT),
		middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/follow", m.Handler.Follow)
		auth.DELETE("/follow", m.Handler.Unfollow)
	}
}
