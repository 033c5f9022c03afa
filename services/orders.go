package services

import (
	"fmt"
	"log"
	"math"

	"github.com/stripe/stripe-go/v76"

	"canvasclub/cart"
	"canvasclub/models"
)

// ValidationError marks a caller mistake (400) as opposed to an upstream or
// database failure (500).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type fulfillmentAPI interface {
	GetProduct(productID string) (*PrintifyProduct, error)
	CreateOrder(order PrintifyOrderRequest) (*PrintifyOrder, error)
	GetOrder(orderID string) (*PrintifyOrder, error)
}

type paymentCharger interface {
	CreatePaymentIntent(amountCents int64, customerID, paymentMethodID, description string) (*stripe.PaymentIntent, error)
}

type orderStore interface {
	CreateOrder(userID string, totalAmount float64, stripePaymentID string, addr models.ShippingAddress) (*models.Order, error)
	CreateOrderItems(orderID string, items []models.OrderItem) error
	SetOrderFulfillment(orderID, printifyOrderID, status string) error
}

// OrderWriter runs the checkout sequence: validate cart against the catalog,
// charge, persist, submit fulfillment. Payment is captured before anything is
// persisted; a fulfillment failure after capture leaves the order pending for
// out-of-band remediation rather than failing the request.
type OrderWriter struct {
	printify fulfillmentAPI
	payments paymentCharger
	store    orderStore
}

func NewOrderWriter(printify fulfillmentAPI, payments paymentCharger, store orderStore) *OrderWriter {
	return &OrderWriter{printify: printify, payments: payments, store: store}
}

func (w *OrderWriter) CreateOrder(profile *models.Profile, items []cart.Item, addr models.ShippingAddress, paymentMethodID string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "No items provided"}
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid quantity for product %s", it.ProductID)}
		}
	}
	if errs := ValidateAddress(addr); len(errs) > 0 {
		field, msg := FirstAddressError(errs)
		return nil, &ValidationError{Message: fmt.Sprintf("Invalid shipping address: %s: %s", field, msg)}
	}
	if paymentMethodID == "" {
		return nil, &ValidationError{Message: "Payment method is required"}
	}

	// Validate every line against the catalog before charging anything. The
	// charge amount comes from server-fetched prices only; client-supplied
	// prices are never read.
	totalAmount := 0.0
	orderItems := make([]models.OrderItem, 0, len(items))
	lineItems := make([]PrintifyLineItem, 0, len(items))

	for _, it := range items {
		product, err := w.printify.GetProduct(it.ProductID)
		if err != nil || product == nil {
			return nil, fmt.Errorf("Product not found: %s", it.ProductID)
		}

		price, variantID := resolveVariantPrice(product, it.VariantID)
		totalAmount += price * float64(it.Quantity)

		formatted := FormatProduct(*product)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			VariantID: variantID,
			Title:     product.Title,
			ImageURL:  formatted.ImageURL,
			Quantity:  it.Quantity,
			Price:     price,
		})
		lineItems = append(lineItems, PrintifyLineItem{
			ProductID: product.ID,
			VariantID: variantID,
			Quantity:  it.Quantity,
		})
	}

	amountCents := int64(math.Round(totalAmount * 100))
	intent, err := w.payments.CreatePaymentIntent(amountCents, profile.StripeCustomerID, paymentMethodID, "Canvas print order")
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	order, err := w.store.CreateOrder(profile.ID, totalAmount, intent.ID, addr)
	if err != nil {
		// The charge went through but the order row is missing; surface the
		// payment reference in the log for manual correlation.
		log.Printf("order persist failed after payment %s: %v", intent.ID, err)
		return nil, err
	}

	if err := w.store.CreateOrderItems(order.ID, orderItems); err != nil {
		log.Printf("order items persist failed for order %s: %v", order.ID, err)
		return nil, err
	}
	order.Items = orderItems

	if err := w.submitFulfillment(order, lineItems, profile.Email); err != nil {
		// Payment is already captured; keep the order pending and let the
		// admin remediation view resubmit it.
		log.Printf("fulfillment submission failed for order %s: %v", order.ID, err)
	}

	return order, nil
}

// ResubmitFulfillment retries the fulfillment submission for an order that
// was paid but never reached the provider.
func (w *OrderWriter) ResubmitFulfillment(order *models.Order, email string) error {
	lineItems := make([]PrintifyLineItem, 0, len(order.Items))
	for _, it := range order.Items {
		lineItems = append(lineItems, PrintifyLineItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return w.submitFulfillment(order, lineItems, email)
}

func (w *OrderWriter) submitFulfillment(order *models.Order, lineItems []PrintifyLineItem, email string) error {
	created, err := w.printify.CreateOrder(PrintifyOrderRequest{
		ExternalID:     order.ID,
		LineItems:      lineItems,
		ShippingMethod: 1,
		ShippingAddress: PrintifyAddress{
			FirstName: order.ShippingAddress.FirstName,
			LastName:  order.ShippingAddress.LastName,
			Email:     email,
			Phone:     order.ShippingAddress.Phone,
			Address1:  order.ShippingAddress.Address1,
			Address2:  order.ShippingAddress.Address2,
			City:      order.ShippingAddress.City,
			State:     order.ShippingAddress.State,
			Country:   order.ShippingAddress.Country,
			Zip:       order.ShippingAddress.Zip,
		},
	})
	if err != nil {
		return err
	}

	if err := w.store.SetOrderFulfillment(order.ID, created.ID, models.OrderStatusProcessing); err != nil {
		return err
	}
	order.PrintifyOrderID = created.ID
	order.Status = models.OrderStatusProcessing
	return nil
}

// FulfillmentDetails fetches live provider state for an order, best effort.
func (w *OrderWriter) FulfillmentDetails(printifyOrderID string) (*PrintifyOrder, error) {
	return w.printify.GetOrder(printifyOrderID)
}

// resolveVariantPrice picks the requested variant's price, falling back to
// the first enabled variant when the request names no (or an unknown)
// variant.
func resolveVariantPrice(product *PrintifyProduct, variantID int64) (float64, int64) {
	if variantID != 0 {
		for _, v := range product.Variants {
			if v.ID == variantID {
				return float64(v.Price) / 100, v.ID
			}
		}
	}
	for _, v := range product.Variants {
		if v.IsEnabled {
			return float64(v.Price) / 100, v.ID
		}
	}
	if len(product.Variants) > 0 {
		v := product.Variants[0]
		return float64(v.Price) / 100, v.ID
	}
	return 0, variantID
}
