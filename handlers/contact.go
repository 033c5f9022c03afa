package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"canvasclub/models"
	"canvasclub/services"
	"canvasclub/store"
)

type ContactHandler struct {
	store  *store.Store
	mailer *services.Mailer
}

func NewContactHandler(s *store.Store, mailer *services.Mailer) *ContactHandler {
	return &ContactHandler{store: s, mailer: mailer}
}

func (h *ContactHandler) Create(c *gin.Context) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid JSON"})
		return
	}

	if input.Name == "" || input.Email == "" || input.Message == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Missing required fields"})
		return
	}
	if !services.ValidateEmail(input.Email) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid email address"})
		return
	}

	msg, err := h.store.CreateContactMessage(input.Name, input.Email, input.Subject, input.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	// Email is fire-and-forget; the stored row is the source of truth.
	go h.mailer.NotifyContactMessage(*msg)

	c.JSON(http.StatusCreated, models.ContactMessageResponse{
		Message: "Message sent successfully",
		Data:    *msg,
	})
}

func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.store.ListContactMessages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ContactListResponse{Messages: messages})
}

func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid JSON"})
		return
	}

	valid := map[string]bool{
		models.ContactStatusNew:     true,
		models.ContactStatusRead:    true,
		models.ContactStatusReplied: true,
	}
	if !valid[input.Status] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid status. Must be new, read or replied"})
		return
	}

	msg, err := h.store.UpdateContactMessageStatus(c.Param("id"), input.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Message not found"})
		return
	}

	c.JSON(http.StatusOK, models.ContactMessageResponse{
		Message: "Status updated successfully",
		Data:    *msg,
	})
}
