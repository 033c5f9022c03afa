package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"canvasclub/middleware"
	"canvasclub/models"
	"canvasclub/store"
)

type UserHandler struct {
	store *store.Store
}

func NewUserHandler(s *store.Store) *UserHandler {
	return &UserHandler{store: s}
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	var input struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid JSON"})
		return
	}

	updated, err := h.store.UpdateProfileName(profile.ID, input.FirstName, input.LastName)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": updated})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid input", Error: err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to hash password"})
		return
	}

	if err := h.store.UpdatePassword(profile.ID, string(hash)); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
