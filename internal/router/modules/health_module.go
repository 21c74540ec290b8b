package modules

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-social-accounts/pkg/response"
)

// HealthModule answers GET /api/healthz. Missing backends are reported as
// "disabled" and do not fail the check.
type HealthModule struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthModule(db *sql.DB, rdb *redis.Client) *HealthModule {
	return &HealthModule{DB: db, Redis: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.check)
}

func (m *HealthModule) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "disabled", "redis": "disabled"}
	healthy := true
	if m.DB != nil {
		status["database"] = "ok"
		if err := m.DB.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
	}
	if m.Redis != nil {
		status["redis"] = "ok"
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", status)
		return
	}
	response.Success(c, http.StatusOK, status, "ok", nil)
}
