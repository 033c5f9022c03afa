package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	storage := NewStorage("https://storage.example.com/v1", "test-secret")

	signed, err := storage.SignedURL("videos", "lesson-1.mp4", time.Hour)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(signed, "https://storage.example.com/v1/videos/lesson-1.mp4?"))
	assert.True(t, storage.VerifySignedURL(signed))
}

func TestSignedURLExpires(t *testing.T) {
	storage := NewStorage("https://storage.example.com/v1", "test-secret")
	storage.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	signed, err := storage.SignedURL("videos", "lesson-1.mp4", time.Minute)
	require.NoError(t, err)
	assert.True(t, storage.VerifySignedURL(signed))

	storage.now = func() time.Time { return time.Unix(1_700_000_000+120, 0) }
	assert.False(t, storage.VerifySignedURL(signed))
}

func TestSignedURLTamperedToken(t *testing.T) {
	storage := NewStorage("https://storage.example.com/v1", "test-secret")

	signed, err := storage.SignedURL("videos", "lesson-1.mp4", time.Hour)
	require.NoError(t, err)

	tampered := strings.Replace(signed, "lesson-1.mp4", "lesson-2.mp4", 1)
	assert.False(t, storage.VerifySignedURL(tampered))
}

func TestSignedURLRequiresSecret(t *testing.T) {
	storage := NewStorage("https://storage.example.com/v1", "")

	_, err := storage.SignedURL("videos", "lesson-1.mp4", time.Hour)
	assert.Error(t, err)
}

func TestRemoveIssuesSignedDelete(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if r.URL.Query().Get("token") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewStorage(server.URL, "test-secret")
	require.NoError(t, storage.Remove("videos", "lesson-1.mp4"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/videos/lesson-1.mp4", gotPath)
}

func TestRemoveMissingObjectIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewStorage(server.URL, "test-secret")
	assert.NoError(t, storage.Remove("videos", "already-gone.mp4"))
}

func TestRemoveBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	storage := NewStorage(server.URL, "test-secret")
	assert.Error(t, storage.Remove("videos", "lesson-1.mp4"))
}

func TestObjectName(t *testing.T) {
	name := ObjectName("My Video.mp4")
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.NotEqual(t, name, ObjectName("My Video.mp4"))
}
