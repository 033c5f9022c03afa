package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v76"

	"canvasclub/models"
)

var ErrNoSubscription = errors.New("no subscription found")

// BillingGateway is the slice of the payment provider's API the synchronizer
// uses. The production implementation wraps stripe-go.
type BillingGateway interface {
	CreateCustomer(email, name, userID string) (*stripe.Customer, error)
	AttachPaymentMethod(paymentMethodID, customerID string) error
	SetDefaultPaymentMethod(customerID, paymentMethodID string) error
	CreateSubscription(customerID, priceID string) (*stripe.Subscription, error)
	GetSubscription(subscriptionID string) (*stripe.Subscription, error)
	SetCancelAtPeriodEnd(subscriptionID string, cancel bool) (*stripe.Subscription, error)
	CreatePaymentIntent(amountCents int64, customerID, paymentMethodID, description string) (*stripe.PaymentIntent, error)
	CreateSetupIntent(customerID string) (*stripe.SetupIntent, error)
	GetProduct(productID string) (*stripe.Product, error)
	ListPlans() ([]models.Plan, error)
}

type billingStore interface {
	GetProfileByID(id string) (*models.Profile, error)
	SetStripeCustomerID(id, customerID string) error
	UpsertSubscription(userID, stripeSubID, priceID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) (*models.Subscription, error)
	CurrentSubscription(userID string) (*models.Subscription, error)
	OverwriteSubscriptionByStripeID(stripeSubID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) (*models.Subscription, error)
	SetCancelAtPeriodEnd(id string, cancel bool) error
	SetSubscriptionStatus(id, status string) error
	UpdateProfileSubscription(id, status string, endDate *time.Time) error
	SetProfileSubscriptionStatus(id, status string) error
}

// Billing keeps the local Subscription row and the Profile mirror in sync with
// the payment provider, driven by direct user actions and webhook events.
type Billing struct {
	gateway BillingGateway
	store   billingStore
}

func NewBilling(gateway BillingGateway, store billingStore) *Billing {
	return &Billing{gateway: gateway, store: store}
}

// EnsureCustomer returns the profile's billing customer reference, creating
// and persisting one if absent.
func (b *Billing) EnsureCustomer(profile *models.Profile) (string, error) {
	if profile.StripeCustomerID != "" {
		return profile.StripeCustomerID, nil
	}

	name := fmt.Sprintf("%s %s", profile.FirstName, profile.LastName)
	customer, err := b.gateway.CreateCustomer(profile.Email, name, profile.ID)
	if err != nil {
		return "", fmt.Errorf("creating billing customer: %w", err)
	}

	if err := b.store.SetStripeCustomerID(profile.ID, customer.ID); err != nil {
		return "", err
	}
	profile.StripeCustomerID = customer.ID
	return customer.ID, nil
}

// Subscribe creates the recurring subscription upstream and mirrors it
// locally. The returned status lets the caller distinguish `incomplete`
// (needs further client-side authentication) from `active`/`trialing`.
func (b *Billing) Subscribe(profile *models.Profile, paymentMethodID, priceID string) (*models.Subscription, error) {
	customerID, err := b.EnsureCustomer(profile)
	if err != nil {
		return nil, err
	}

	if err := b.gateway.AttachPaymentMethod(paymentMethodID, customerID); err != nil {
		return nil, fmt.Errorf("attaching payment method: %w", err)
	}
	if err := b.gateway.SetDefaultPaymentMethod(customerID, paymentMethodID); err != nil {
		return nil, fmt.Errorf("setting default payment method: %w", err)
	}

	sub, err := b.gateway.CreateSubscription(customerID, priceID)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	local, err := b.store.UpsertSubscription(profile.ID, sub.ID, priceID, string(sub.Status), &periodEnd, sub.CancelAtPeriodEnd)
	if err != nil {
		return nil, err
	}

	if err := b.store.UpdateProfileSubscription(profile.ID, string(sub.Status), &periodEnd); err != nil {
		return nil, err
	}

	return local, nil
}

// Cancel sets cancel_at_period_end upstream and marks the profile canceled
// immediately.
func (b *Billing) Cancel(userID string) (*models.SubscriptionInfo, error) {
	local, err := b.store.CurrentSubscription(userID)
	if err != nil {
		return nil, err
	}
	if local == nil {
		return nil, ErrNoSubscription
	}

	sub, err := b.gateway.SetCancelAtPeriodEnd(local.StripeSubscriptionID, true)
	if err != nil {
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	if err := b.store.SetCancelAtPeriodEnd(local.ID, true); err != nil {
		return nil, err
	}
	if err := b.store.SetSubscriptionStatus(local.ID, string(sub.Status)); err != nil {
		return nil, err
	}
	if err := b.store.SetProfileSubscriptionStatus(userID, models.SubStatusCanceled); err != nil {
		return nil, err
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	return &models.SubscriptionInfo{
		ID:                local.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  &periodEnd,
		CancelAtPeriodEnd: true,
	}, nil
}

// Resume clears cancel_at_period_end. It does not move the subscription out
// of a terminal state.
func (b *Billing) Resume(userID string) (*models.SubscriptionInfo, error) {
	local, err := b.store.CurrentSubscription(userID)
	if err != nil {
		return nil, err
	}
	if local == nil {
		return nil, ErrNoSubscription
	}

	sub, err := b.gateway.SetCancelAtPeriodEnd(local.StripeSubscriptionID, false)
	if err != nil {
		return nil, fmt.Errorf("resuming subscription: %w", err)
	}

	if err := b.store.SetCancelAtPeriodEnd(local.ID, false); err != nil {
		return nil, err
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	return &models.SubscriptionInfo{
		ID:                local.ID,
		Status:            string(sub.Status),
		CurrentPeriodEnd:  &periodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}

// Current returns the user's subscription enriched with live provider state,
// or nil when the user has never subscribed.
func (b *Billing) Current(userID string) (*models.SubscriptionInfo, error) {
	local, err := b.store.CurrentSubscription(userID)
	if err != nil {
		return nil, err
	}
	if local == nil {
		return nil, nil
	}

	sub, err := b.gateway.GetSubscription(local.StripeSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("fetching subscription: %w", err)
	}

	info := &models.SubscriptionInfo{
		ID:                local.ID,
		StripeID:          local.StripeSubscriptionID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	info.CurrentPeriodEnd = &periodEnd

	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		plan := &models.Plan{
			Price:    float64(price.UnitAmount) / 100,
			Currency: string(price.Currency),
		}
		if price.Recurring != nil {
			plan.Interval = string(price.Recurring.Interval)
		}
		if price.Product != nil {
			if product, err := b.gateway.GetProduct(price.Product.ID); err == nil {
				plan.ID = product.ID
				plan.Name = product.Name
			}
		}
		info.Plan = plan
	}

	return info, nil
}

func (b *Billing) SetupIntent(profile *models.Profile) (string, error) {
	customerID, err := b.EnsureCustomer(profile)
	if err != nil {
		return "", err
	}

	intent, err := b.gateway.CreateSetupIntent(customerID)
	if err != nil {
		return "", fmt.Errorf("creating setup intent: %w", err)
	}
	return intent.ClientSecret, nil
}

func (b *Billing) Plans() ([]models.Plan, error) {
	plans, err := b.gateway.ListPlans()
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		plans = append(plans, models.Plan{
			ID:          "prod_SbY9KDnAiFVej2",
			Name:        "Exclusive Content Subscription",
			Description: "Access to exclusive content",
			PriceID:     "price_1RgL2yK1JuQJRnYFwaZc2Qr4",
			Price:       2.99,
			Currency:    "usd",
			Interval:    "month",
			Features:    []string{"Access to exclusive content", "Monthly updates"},
		})
	}
	return plans, nil
}

// HandleWebhookEvent reconciles provider truth for the subscription lifecycle
// events. The update is a full overwrite, so redelivered events are harmless.
func (b *Billing) HandleWebhookEvent(event stripe.Event) error {
	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &payload); err != nil {
			return fmt.Errorf("decoding event payload: %w", err)
		}
		return b.syncFromProvider(payload.ID)

	case "invoice.payment_succeeded":
		var payload struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Raw, &payload); err != nil {
			return fmt.Errorf("decoding invoice payload: %w", err)
		}
		if payload.Subscription == "" {
			return nil
		}
		return b.syncFromProvider(payload.Subscription)
	}

	return nil
}

func (b *Billing) syncFromProvider(stripeSubID string) error {
	sub, err := b.gateway.GetSubscription(stripeSubID)
	if err != nil {
		return fmt.Errorf("retrieving subscription %s: %w", stripeSubID, err)
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	local, err := b.store.OverwriteSubscriptionByStripeID(sub.ID, string(sub.Status), &periodEnd, sub.CancelAtPeriodEnd)
	if err != nil {
		return err
	}
	if local == nil {
		// No local row for this subscription; acknowledge without effect.
		log.Printf("webhook: unknown subscription %s, skipping", stripeSubID)
		return nil
	}

	return b.store.UpdateProfileSubscription(local.UserID, string(sub.Status), &periodEnd)
}
