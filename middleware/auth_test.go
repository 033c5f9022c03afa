package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasclub/models"
)

const testSecret = "test-secret"

type fakeProfiles struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfiles) GetProfileByID(id string) (*models.Profile, error) {
	return f.profiles[id], nil
}

func signTokenWith(t *testing.T, secret, userID string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func signToken(t *testing.T, userID string, expiresIn time.Duration) string {
	return signTokenWith(t, testSecret, userID, expiresIn)
}

func authTestRouter(profiles *fakeProfiles, extra ...gin.HandlerFunc) (*gin.Engine, *bool) {
	gin.SetMode(gin.TestMode)
	handlerRan := false

	auth := NewAuth(testSecret, profiles)
	r := gin.New()
	chain := append([]gin.HandlerFunc{auth.Required()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		handlerRan = true
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).ID})
	})
	r.GET("/protected", chain...)
	return r, &handlerRan
}

func TestAuthRequiredNoToken(t *testing.T) {
	r, handlerRan := authTestRouter(&fakeProfiles{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan, "handler must not run without a token")
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	r, handlerRan := authTestRouter(&fakeProfiles{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1"},
	}}
	r, handlerRan := authTestRouter(profiles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", -time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan)
}

func TestAuthRequiredBearerToken(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1", Email: "jane@example.com"},
	}}
	r, handlerRan := authTestRouter(profiles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *handlerRan)
}

func TestAuthRequiredCookieToken(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1"},
	}}
	r, handlerRan := authTestRouter(profiles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: signToken(t, "user-1", time.Hour)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *handlerRan)
}

// The verifier must use the configured secret, not whatever the process
// environment held at startup: a token signed with a different (or empty)
// key is rejected even when its claims are well formed.
func TestAuthRequiredConfiguredSecretOnly(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1"},
	}}
	r, handlerRan := authTestRouter(profiles)

	for _, wrongSecret := range []string{"", "other-secret"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTokenWith(t, wrongSecret, "user-1", time.Hour))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, *handlerRan)
	}
}

func TestAuthRequiredUnknownUser(t *testing.T) {
	r, handlerRan := authTestRouter(&fakeProfiles{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "ghost", time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *handlerRan)
}

func TestAdminRequired(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1":  {ID: "user-1", Role: models.RoleUser},
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin},
	}}
	r, handlerRan := authTestRouter(profiles, AdminRequired())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *handlerRan)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *handlerRan)
}

func TestSubscriberRequired(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"free-1": {ID: "free-1", SubscriptionStatus: models.SubStatusNone},
		"sub-1":  {ID: "sub-1", SubscriptionStatus: models.SubStatusTrialing},
	}}
	r, handlerRan := authTestRouter(profiles, SubscriberRequired())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "free-1", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *handlerRan)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "sub-1", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *handlerRan)
}

func TestAuthOptional(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1"},
	}}
	auth := NewAuth(testSecret, profiles)

	r := gin.New()
	r.GET("/open", auth.Optional(), func(c *gin.Context) {
		if profile := CurrentUser(c); profile != nil {
			c.JSON(http.StatusOK, gin.H{"user": profile.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})

	// Anonymous requests pass through.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	// A valid token attaches the profile.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", time.Hour))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")

	// A garbage token degrades to anonymous rather than failing.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer junk")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}
