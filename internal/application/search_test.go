package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-social-accounts/pkg/mailer/templates"
)

// fakeES records indexed documents and serves them back on _search.
type fakeES struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/":
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/_doc/"):
		body, _ := io.ReadAll(r.Body)
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.docs[id] = body
		_, _ = w.Write([]byte(`{"result":"created"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		hits := make([]map[string]any, 0, len(f.docs))
		for id, doc := range f.docs {
			hits = append(hits, map[string]any{"_id": id, "_source": doc})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func newESClient(t *testing.T, h http.Handler) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearchUsers_IndexesAndResolvesFollowing(t *testing.T) {
	f := newFixture(t)
	store := &fakeES{docs: map[string]json.RawMessage{}}
	f.svc.ES = newESClient(t, store)
	f.svc.ESUsersIndex = "users"
	ctx := context.Background()

	alice := f.register(t, "alice", "alice@example.com", "a")
	bob := f.register(t, "bob", "bob@example.com", "b")
	f.pub.On("PublishJSON", mock.Anything, jobWithTemplate(templates.NewFollower)).Return(nil)
	_, err := f.svc.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)

	store.mu.Lock()
	require.Contains(t, store.docs, bob.ID)
	assert.NotContains(t, string(store.docs[bob.ID]), "bob@example.com")
	store.mu.Unlock()

	got, err := f.svc.SearchUsers(ctx, alice.ID, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	following := map[string]bool{}
	for _, p := range got {
		following[p.Username] = p.Following
	}
	assert.Equal(t, map[string]bool{"alice": false, "bob": true}, following)
}

func TestSearchUsers_Disabled(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SearchUsers(context.Background(), "", "bob", 10)
	require.ErrorIs(t, err, ErrSearchDisabled)
}

func TestSearchUsers_ErrorResponse(t *testing.T) {
	f := newFixture(t)
	f.svc.ES = newESClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"}}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	}))
	f.svc.ESUsersIndex = "users"

	_, err := f.svc.SearchUsers(context.Background(), "", "bob", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

type avatarStoreMock struct{ mock.Mock }

func (m *avatarStoreMock) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	args := m.Called(objectPath, contentType, string(b))
	return args.String(0), args.Error(1)
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	store := &avatarStoreMock{}
	f.svc.Avatars = store
	u := f.register(t, "alice", "alice@example.com", "a")
	ctx := context.Background()

	store.On("Upload", mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "avatars/"+u.ID+"/") && strings.HasSuffix(p, ".png")
	}), "image/png", "PNGDATA").Return("https://storage.googleapis.com/b/avatars/x.png", nil).Once()

	got, err := f.svc.UploadAvatar(ctx, u.ID, bytes.NewBufferString("PNGDATA"), "Me.PNG", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/b/avatars/x.png", got.Image)

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Image, stored.Image)
	store.AssertExpectations(t)
}

func TestUploadAvatar_Rejections(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice", "alice@example.com", "a")
	ctx := context.Background()

	_, err := f.svc.UploadAvatar(ctx, u.ID, strings.NewReader("x"), "a.png", "image/png")
	require.ErrorIs(t, err, ErrAvatarStorageDisabled)

	store := &avatarStoreMock{}
	f.svc.Avatars = store
	_, err = f.svc.UploadAvatar(ctx, u.ID, strings.NewReader("x"), "a.txt", "text/plain")
	require.ErrorIs(t, err, ErrUnsupportedImage)

	store.On("Upload", mock.Anything, "image/jpeg", "x").Return("", errors.New("gcs down"))
	_, err = f.svc.UploadAvatar(ctx, u.ID, strings.NewReader("x"), "a.jpg", "image/jpeg")
	require.EqualError(t, err, "gcs down")

	stored, err := f.repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Image)
}
