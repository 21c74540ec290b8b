package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// updateUserRequest fields are optional; absent keys stay unchanged.
type updateUserRequest struct {
	User struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
		Password *string `json:"password"`
	} `json:"user"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=100"`
	Size int    `form:"size" binding:"omitempty,pagesize"`
}

// Current GET /api/user
func (h *UserHandler) Current(c *gin.Context) {
	u, err := h.Svc.Current(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondUser(c, h.Svc, h.Logger, http.StatusOK, u, "current user")
}

// Update PUT /api/user
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), userapp.UpdateUserInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
		Password: req.User.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondUser(c, h.Svc, h.Logger, http.StatusOK, u, "user updated")
}

// UploadAvatar POST /api/user/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"file": "can't be blank"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "avatar too large", map[string]string{"file": "must be at most 5MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	respondUser(c, h.Svc, h.Logger, http.StatusOK, u, "avatar updated")
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	profiles, err := h.Svc.SearchUsers(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profiles": profiles}, "search results", map[string]any{"count": len(profiles)})
}
