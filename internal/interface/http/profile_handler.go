package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
)

type ProfileHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewProfileHandler(svc *userapp.Service, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

// Get GET /api/profiles/:username (auth optional)
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Svc.Profile(c.Request.Context(), c.Param("username"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondProfile(c, p, "profile")
}

// Follow POST /api/profiles/:username/follow
func (h *ProfileHandler) Follow(c *gin.Context) {
	p, err := h.Svc.Follow(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondProfile(c, p, "followed")
}

// Unfollow DELETE /api/profiles/:username/follow
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	p, err := h.Svc.Unfollow(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondProfile(c, p, "unfollowed")
}
