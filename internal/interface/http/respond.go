package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/response"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/validation"
)

// writeError maps service and repository errors onto status codes. Anything
// unrecognised is logged and reported as 500 without details.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *repo.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.Is(err, userapp.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", map[string]string{"email or password": "is invalid"})
	case errors.Is(err, userapp.ErrUserNotFound), errors.Is(err, repo.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, repo.ErrDuplicate):
		response.Error[any](c, http.StatusConflict, "username or email is already taken", nil)
	case errors.Is(err, repo.ErrConflict):
		response.Error[any](c, http.StatusConflict, "user was modified concurrently, retry the request", nil)
	case errors.Is(err, userapp.ErrUnsupportedImage):
		response.Error[any](c, http.StatusUnsupportedMediaType, "avatar must be an image", nil)
	case errors.Is(err, userapp.ErrAvatarStorageDisabled), errors.Is(err, userapp.ErrSearchDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func writeBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
}

// respondUser renders the self view, which carries a fresh token.
func respondUser(c *gin.Context, svc *userapp.Service, logger *logrus.Logger, status int, u *entity.User, message string) {
	view, err := svc.View(u)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	response.Success(c, status, gin.H{"user": view}, message, nil)
}

func respondProfile(c *gin.Context, p entity.ProfileView, message string) {
	response.Success(c, http.StatusOK, gin.H{"profile": p}, message, nil)
}
