package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"canvasclub/middleware"
	"canvasclub/models"
	"canvasclub/store"
)

type AuthHandler struct {
	store     *store.Store
	jwtSecret []byte
}

func NewAuthHandler(s *store.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: s, jwtSecret: []byte(jwtSecret)}
}

type SignupInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid input", Error: err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to hash password"})
		return
	}

	profile, err := h.store.CreateProfile(input.Email, string(hash), input.FirstName, input.LastName)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Email already exists"})
		return
	}

	token, _ := h.generateToken(profile.ID, profile.Email)
	setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": profile})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid input", Error: err.Error()})
		return
	}

	profile, err := h.store.GetProfileByEmail(input.Email)
	if err != nil || profile == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid credentials"})
		return
	}

	token, _ := h.generateToken(profile.ID, profile.Email)
	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": profile})
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandler) generateToken(id, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	return token.SignedString(h.jwtSecret)
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.CookieName, token, 3600*24*7, "/", "", false, true)
}
