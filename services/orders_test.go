package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"canvasclub/cart"
	"canvasclub/models"
)

type fakeFulfillment struct {
	fakeFetcher
	createErr     error
	createdOrders []PrintifyOrderRequest
}

func (f *fakeFulfillment) CreateOrder(order PrintifyOrderRequest) (*PrintifyOrder, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdOrders = append(f.createdOrders, order)
	return &PrintifyOrder{ID: "pf-1", Status: "pending"}, nil
}

func (f *fakeFulfillment) GetOrder(orderID string) (*PrintifyOrder, error) {
	return &PrintifyOrder{ID: orderID, Status: "in-production"}, nil
}

type fakeCharger struct {
	err     error
	charges []int64
}

func (f *fakeCharger) CreatePaymentIntent(amountCents int64, customerID, paymentMethodID, description string) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.charges = append(f.charges, amountCents)
	return &stripe.PaymentIntent{ID: "pi_test"}, nil
}

type fakeOrderStore struct {
	orders      []models.Order
	items       map[string][]models.OrderItem
	fulfillment map[string]string
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		items:       map[string][]models.OrderItem{},
		fulfillment: map[string]string{},
	}
}

func (f *fakeOrderStore) CreateOrder(userID string, totalAmount float64, stripePaymentID string, addr models.ShippingAddress) (*models.Order, error) {
	order := models.Order{
		ID:              "order-1",
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalAmount:     totalAmount,
		StripePaymentID: stripePaymentID,
		ShippingAddress: addr,
	}
	f.orders = append(f.orders, order)
	return &order, nil
}

func (f *fakeOrderStore) CreateOrderItems(orderID string, items []models.OrderItem) error {
	f.items[orderID] = items
	return nil
}

func (f *fakeOrderStore) SetOrderFulfillment(orderID, printifyOrderID, status string) error {
	f.fulfillment[orderID] = printifyOrderID
	return nil
}

func testProfile() *models.Profile {
	return &models.Profile{
		ID:               "user-1",
		Email:            "jane@example.com",
		StripeCustomerID: "cus_test",
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	charger := &fakeCharger{}
	writer := NewOrderWriter(&fakeFulfillment{}, charger, newFakeOrderStore())

	_, err := writer.CreateOrder(testProfile(), nil, validAddress(), "pm_test")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, charger.charges, "nothing should be charged for an empty cart")
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	writer := NewOrderWriter(&fakeFulfillment{}, &fakeCharger{}, newFakeOrderStore())

	_, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p1", Quantity: 0}}, validAddress(), "pm_test")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateOrderInvalidAddress(t *testing.T) {
	writer := NewOrderWriter(&fakeFulfillment{}, &fakeCharger{}, newFakeOrderStore())

	addr := validAddress()
	addr.Zip = ""
	_, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p1", Quantity: 1}}, addr, "pm_test")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateOrderAddressErrorIsDeterministic(t *testing.T) {
	writer := NewOrderWriter(&fakeFulfillment{}, &fakeCharger{}, newFakeOrderStore())

	addr := validAddress()
	addr.City = ""
	addr.Phone = ""

	// Multiple fields are wrong; the 400 message always names the same one.
	for i := 0; i < 5; i++ {
		_, err := writer.CreateOrder(testProfile(),
			[]cart.Item{{ProductID: "p1", Quantity: 1}}, addr, "pm_test")
		require.Error(t, err)
		assert.Equal(t, "Invalid shipping address: city: This field is required", err.Error())
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	charger := &fakeCharger{}
	store := newFakeOrderStore()
	writer := NewOrderWriter(&fakeFulfillment{}, charger, store)

	_, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "missing", Quantity: 1}}, validAddress(), "pm_test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product not found: missing")
	assert.Empty(t, charger.charges)
	assert.Empty(t, store.orders)
}

func TestCreateOrderChargesServerPrice(t *testing.T) {
	fulfillment := &fakeFulfillment{fakeFetcher: fakeFetcher{products: sampleProducts()}}
	charger := &fakeCharger{}
	store := newFakeOrderStore()
	writer := NewOrderWriter(fulfillment, charger, store)

	// The client-supplied price is ignored; the catalog price for variant 11
	// is 12.50, so two units charge 2500 cents.
	order, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p1", VariantID: 11, Price: 0.01, Quantity: 2}},
		validAddress(), "pm_test")
	require.NoError(t, err)

	require.Len(t, charger.charges, 1)
	assert.Equal(t, int64(2500), charger.charges[0])
	assert.Equal(t, 25.00, order.TotalAmount)
	assert.Equal(t, "pi_test", order.StripePaymentID)

	require.Len(t, store.items["order-1"], 1)
	assert.Equal(t, 12.50, store.items["order-1"][0].Price)

	// Fulfillment was submitted and recorded.
	require.Len(t, fulfillment.createdOrders, 1)
	assert.Equal(t, "order-1", fulfillment.createdOrders[0].ExternalID)
	assert.Equal(t, "pf-1", store.fulfillment["order-1"])
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestCreateOrderVariantFallback(t *testing.T) {
	fulfillment := &fakeFulfillment{fakeFetcher: fakeFetcher{products: sampleProducts()}}
	charger := &fakeCharger{}
	writer := NewOrderWriter(fulfillment, charger, newFakeOrderStore())

	// p2's first variant is disabled; the first enabled one (25.00) is used.
	_, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p2", Quantity: 1}}, validAddress(), "pm_test")
	require.NoError(t, err)

	require.Len(t, charger.charges, 1)
	assert.Equal(t, int64(2500), charger.charges[0])
	assert.Equal(t, int64(22), fulfillment.createdOrders[0].LineItems[0].VariantID)
}

func TestCreateOrderPaymentFailure(t *testing.T) {
	store := newFakeOrderStore()
	writer := NewOrderWriter(
		&fakeFulfillment{fakeFetcher: fakeFetcher{products: sampleProducts()}},
		&fakeCharger{err: errors.New("card declined")},
		store)

	_, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p1", Quantity: 1}}, validAddress(), "pm_test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment failed")
	assert.Empty(t, store.orders, "no order row without a successful charge")
}

func TestCreateOrderFulfillmentFailureKeepsOrder(t *testing.T) {
	store := newFakeOrderStore()
	writer := NewOrderWriter(
		&fakeFulfillment{
			fakeFetcher: fakeFetcher{products: sampleProducts()},
			createErr:   errors.New("printify 500"),
		},
		&fakeCharger{}, store)

	order, err := writer.CreateOrder(testProfile(),
		[]cart.Item{{ProductID: "p1", Quantity: 1}}, validAddress(), "pm_test")

	// Payment was captured, so the request still succeeds; the order stays
	// pending with no fulfillment reference for later resubmission.
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Empty(t, order.PrintifyOrderID)
	assert.Empty(t, store.fulfillment)
}

func TestResubmitFulfillment(t *testing.T) {
	fulfillment := &fakeFulfillment{fakeFetcher: fakeFetcher{products: sampleProducts()}}
	store := newFakeOrderStore()
	writer := NewOrderWriter(fulfillment, &fakeCharger{}, store)

	order := &models.Order{
		ID:     "order-9",
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", VariantID: 11, Quantity: 1},
		},
		ShippingAddress: validAddress(),
	}

	require.NoError(t, writer.ResubmitFulfillment(order, "jane@example.com"))
	assert.Equal(t, "pf-1", store.fulfillment["order-9"])
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}
