package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76/webhook"

	"canvasclub/services"
)

type WebhookHandler struct {
	billing       *services.Billing
	webhookSecret string
}

func NewWebhookHandler(billing *services.Billing, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		billing:       billing,
		webhookSecret: webhookSecret,
	}
}

// Stripe ingests signed billing events. Signature failures are rejected with
// 400 plain text before any state change; processing errors also return 400
// so the provider redelivers.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		fmt.Printf("Webhook signature verification failed: %v\n", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	if err := h.billing.HandleWebhookEvent(event); err != nil {
		fmt.Printf("Webhook Error: %v\n", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
