package services

import (
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/product"
	"github.com/stripe/stripe-go/v76/setupintent"
	"github.com/stripe/stripe-go/v76/subscription"

	"canvasclub/models"
)

// StripeGateway implements BillingGateway against the live Stripe API.
type StripeGateway struct{}

func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateCustomer(email, name, userID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.AddMetadata("userId", userID)
	return customer.New(params)
}

func (g *StripeGateway) AttachPaymentMethod(paymentMethodID, customerID string) error {
	_, err := paymentmethod.Attach(paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
	return err
}

func (g *StripeGateway) SetDefaultPaymentMethod(customerID, paymentMethodID string) error {
	_, err := customer.Update(customerID, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	})
	return err
}

func (g *StripeGateway) CreateSubscription(customerID, priceID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	params.AddExpand("latest_invoice.payment_intent")
	return subscription.New(params)
}

func (g *StripeGateway) GetSubscription(subscriptionID string) (*stripe.Subscription, error) {
	return subscription.Get(subscriptionID, nil)
}

func (g *StripeGateway) SetCancelAtPeriodEnd(subscriptionID string, cancel bool) (*stripe.Subscription, error) {
	return subscription.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	})
}

// CreatePaymentIntent captures payment synchronously; redirects are disabled
// because the storefront confirms server-side.
func (g *StripeGateway) CreatePaymentIntent(amountCents int64, customerID, paymentMethodID, description string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}
	return paymentintent.New(params)
}

func (g *StripeGateway) CreateSetupIntent(customerID string) (*stripe.SetupIntent, error) {
	return setupintent.New(&stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	})
}

func (g *StripeGateway) GetProduct(productID string) (*stripe.Product, error) {
	return product.Get(productID, nil)
}

// ListPlans maps active Stripe products with a default price to plan objects.
// Features come from the product's `features` metadata, either JSON or
// comma-separated.
func (g *StripeGateway) ListPlans() ([]models.Plan, error) {
	params := &stripe.ProductListParams{Active: stripe.Bool(true)}
	params.AddExpand("data.default_price")

	plans := []models.Plan{}
	iter := product.List(params)
	for iter.Next() {
		p := iter.Product()
		if p.DefaultPrice == nil {
			continue
		}
		price := p.DefaultPrice

		features := parsePlanFeatures(p.Metadata["features"])
		if len(features) == 0 {
			features = []string{"Access to exclusive content"}
		}

		plan := models.Plan{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceID:     price.ID,
			Price:       float64(price.UnitAmount) / 100,
			Currency:    string(price.Currency),
			Interval:    "month",
			Features:    features,
		}
		if price.Recurring != nil {
			plan.Interval = string(price.Recurring.Interval)
		}
		plans = append(plans, plan)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func parsePlanFeatures(raw string) []string {
	if raw == "" {
		return nil
	}

	var features []string
	if err := json.Unmarshal([]byte(raw), &features); err == nil {
		return features
	}

	for _, f := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}
