package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"canvasclub/models"
)

const (
	// UserKey is the gin context key holding the resolved *models.Profile.
	UserKey    = "user"
	CookieName = "canvasclub_jwt"
)

// ProfileSource resolves a session's user id to a profile record.
type ProfileSource interface {
	GetProfileByID(id string) (*models.Profile, error)
}

// Auth verifies session tokens. The signing secret comes from config at boot,
// not from the environment at init time, so .env-supplied secrets are honored.
type Auth struct {
	secret   []byte
	profiles ProfileSource
}

func NewAuth(secret string, profiles ProfileSource) *Auth {
	return &Auth{secret: []byte(secret), profiles: profiles}
}

// Required resolves the session token to a profile and attaches it to the
// request context. Fails closed with 401 before any handler side effect.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := a.tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
			return
		}

		token, err := jwt.Parse(tokenString, a.keyFunc)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid token claims"})
			return
		}
		if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Token expired"})
			return
		}

		userID, _ := claims["user_id"].(string)
		profile, err := a.profiles.GetProfileByID(userID)
		if err != nil || profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unauthorized"})
			return
		}

		c.Set(UserKey, profile)
		c.Next()
	}
}

// Optional attaches the profile when a valid token is present but lets
// anonymous requests through. Used where public metadata and gated payloads
// share an endpoint.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := a.tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenString, a.keyFunc)
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			userID, _ := claims["user_id"].(string)
			if profile, err := a.profiles.GetProfileByID(userID); err == nil && profile != nil {
				c.Set(UserKey, profile)
			}
		}
		c.Next()
	}
}

func (a *Auth) tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

func (a *Auth) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return a.secret, nil
}

// AdminRequired composes on Required; it assumes the profile is already
// attached.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentUser(c)
		if profile == nil || !profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Message: "Forbidden: Admin access required"})
			return
		}
		c.Next()
	}
}

// SubscriberRequired gates subscriber-only surfaces on active/trialing status.
func SubscriberRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentUser(c)
		if profile == nil || !profile.IsSubscriber() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Message: "Forbidden: Active subscription required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the profile attached by Required, or nil.
func CurrentUser(c *gin.Context) *models.Profile {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*models.Profile)
	return profile
}
