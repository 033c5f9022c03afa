package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"canvasclub/middleware"
	"canvasclub/models"
	"canvasclub/services"
)

type SubscriptionHandler struct {
	billing *services.Billing
}

func NewSubscriptionHandler(billing *services.Billing) *SubscriptionHandler {
	return &SubscriptionHandler{billing: billing}
}

type SubscribeInput struct {
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
	PriceID         string `json:"priceId" binding:"required"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	var input SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "paymentMethodId and priceId are required"})
		return
	}

	sub, err := h.billing.Subscribe(profile, input.PaymentMethodID, input.PriceID)
	if err != nil {
		fmt.Printf("Create subscription error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.SubscriptionResponse{
		Message: "Subscription created successfully",
		Subscription: models.SubscriptionInfo{
			ID:                sub.ID,
			Status:            sub.Status,
			CurrentPeriodEnd:  sub.CurrentPeriodEnd,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		},
	})
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	info, err := h.billing.Cancel(profile.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoSubscription) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "No subscription found"})
			return
		}
		fmt.Printf("Cancel subscription error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SubscriptionResponse{
		Message:      "Subscription canceled successfully",
		Subscription: *info,
	})
}

func (h *SubscriptionHandler) Resume(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	info, err := h.billing.Resume(profile.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoSubscription) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "No subscription found"})
			return
		}
		fmt.Printf("Resume subscription error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SubscriptionResponse{
		Message:      "Subscription resumed successfully",
		Subscription: *info,
	})
}

func (h *SubscriptionHandler) Current(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	info, err := h.billing.Current(profile.ID)
	if err != nil {
		fmt.Printf("Get subscription error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if info == nil {
		c.JSON(http.StatusOK, models.CurrentSubscriptionResponse{
			Subscription: nil,
			Message:      "No active subscription found",
		})
		return
	}

	c.JSON(http.StatusOK, models.CurrentSubscriptionResponse{Subscription: info})
}

func (h *SubscriptionHandler) SetupIntent(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	clientSecret, err := h.billing.SetupIntent(profile)
	if err != nil {
		fmt.Printf("Setup intent error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SetupIntentResponse{ClientSecret: clientSecret})
}

func (h *SubscriptionHandler) Plans(c *gin.Context) {
	plans, err := h.billing.Plans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.PlanListResponse{Plans: plans})
}
