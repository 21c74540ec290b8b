package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

type fakeAvatars struct{ uploaded []string }

func (f *fakeAvatars) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.uploaded = append(f.uploaded, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

func avatarRequest(t *testing.T, contentType string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAvatar(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := memory.NewUserRepository()
	store := &fakeAvatars{}
	svc := userapp.NewService(repo, helpers.NewJWTManager("s"), store, helpers.NewDiscardLogger(), nil, "", nil)
	u := entity.NewUser("alice", "alice@example.com")
	u.SetPassword("pw")
	require.NoError(t, repo.Create(context.Background(), u))

	h := NewUserHandler(svc, helpers.NewDiscardLogger())
	r := gin.New()
	r.POST("/user/avatar", func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, u.ID)
		c.Next()
	}, h.UploadAvatar)

	tests := []struct {
		name        string
		contentType string
		size        int
		code        int
	}{
		{"png", "image/png", 128, http.StatusOK},
		{"not an image", "text/plain", 128, http.StatusUnsupportedMediaType},
		{"too large", "image/png", maxAvatarBytes + 1, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, avatarRequest(t, tt.contentType, tt.size))
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	require.Len(t, store.uploaded, 1)
	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/"+store.uploaded[0], stored.Image)
}

func TestUploadAvatar_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(nil, helpers.NewDiscardLogger())
	r := gin.New()
	r.POST("/user/avatar", h.UploadAvatar)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/avatar", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"file":"can't be blank"`)
}
