package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"

	"canvasclub/services"
)

const testWebhookSecret = "whsec_test_secret"

func stripeSignature(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func webhookTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(services.NewBilling(nil, nil), testWebhookSecret)
	r := gin.New()
	r.POST("/api/webhooks/stripe", h.Stripe)
	return r
}

func eventPayload(eventType string) string {
	return fmt.Sprintf(`{"id":"evt_test","object":"event","api_version":%q,"type":%q,"data":{"object":{}}}`,
		stripe.APIVersion, eventType)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r := webhookTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe",
		strings.NewReader(eventPayload("charge.refunded")))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := webhookTestRouter()
	payload := eventPayload("charge.refunded")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSignature([]byte(payload), "whsec_wrong", time.Now()))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRejectsStaleSignature(t *testing.T) {
	r := webhookTestRouter()
	payload := eventPayload("charge.refunded")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature",
		stripeSignature([]byte(payload), testWebhookSecret, time.Now().Add(-time.Hour)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	r := webhookTestRouter()
	// An event type outside the subscription lifecycle is acknowledged
	// without touching billing state.
	payload := eventPayload("charge.refunded")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSignature([]byte(payload), testWebhookSecret, time.Now()))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}
