package modules

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/response"
)

// DebugModule serves expvar counters on /api/debug/vars to private networks.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	private := middleware.AllowPrivateIP()
	onlyPrivate := func(c *gin.Context) {
		if !private(c) {
			response.Abort(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
	rl := middleware.RateLimit(container.GetRedis(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", onlyPrivate, rl, gin.WrapH(expvar.Handler()))
}
