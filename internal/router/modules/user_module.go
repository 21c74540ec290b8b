package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	handlers "github.com/oksasatya/go-ddd-social-accounts/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
)

// UserModule wires the authenticated self-service routes:
// GET /api/user, PUT /api/user, POST /api/user/avatar, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     middleware.TokenParser
}

func NewUserModule(h *handlers.UserHandler, jwt middleware.TokenParser) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()

	auth := rg.Group("/")
	auth.Use(
		middleware.RequireAuth(m.JWT),
		middleware.RateLimit(container.GetRedis(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/user", m.Handler.Current)
		auth.PUT("/user", m.Handler.Update)
		auth.POST("/user/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
