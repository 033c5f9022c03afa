package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription statuses mirror the billing provider's state machine.
const (
	SubStatusNone              = "none"
	SubStatusActive            = "active"
	SubStatusTrialing          = "trialing"
	SubStatusPastDue           = "past_due"
	SubStatusCanceled          = "canceled"
	SubStatusIncomplete        = "incomplete"
	SubStatusIncompleteExpired = "incomplete_expired"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
	OrderStatusCompleted  = "completed"
)

const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

type Profile struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Role                string     `json:"role"`
	SubscriptionStatus  string     `json:"subscriptionStatus"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
	StripeCustomerID    string     `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsSubscriber reports whether the profile currently has access to
// subscriber-only content.
func (p *Profile) IsSubscriber() bool {
	return p.SubscriptionStatus == SubStatusActive || p.SubscriptionStatus == SubStatusTrialing
}

type Subscription struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"userId"`
	StripeSubscriptionID string     `json:"stripeSubscriptionId"`
	StripePriceID        string     `json:"stripePriceId"`
	Status               string     `json:"status"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd    bool       `json:"cancelAtPeriodEnd"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	TotalAmount     float64         `json:"totalAmount"`
	StripePaymentID string          `json:"-"`
	PrintifyOrderID string          `json:"printifyOrderId,omitempty"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	TrackingURL     string          `json:"trackingUrl,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem snapshots the catalog price at order time so later price changes
// do not affect historical orders.
type OrderItem struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	ProductID string    `json:"productId"`
	VariantID int64     `json:"variantId"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"-"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	IsExclusive  bool      `json:"isExclusive"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	Tags         []Tag     `json:"tags"`
	SignedURL    string    `json:"signedUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog list item reshaped from the fulfillment provider's
// representation (minor units to dollars, default image selected).
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductVariant struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	IsEnabled    bool    `json:"isEnabled"`
	PreviewImage string  `json:"previewImage,omitempty"`
}

type ProductImage struct {
	Src      string `json:"src"`
	Position string `json:"position,omitempty"`
}

type ProductDetail struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	ImageURL    string           `json:"imageUrl"`
	Images      []ProductImage   `json:"images"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
}

type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceID     string   `json:"priceId"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}

type ShippingEstimate struct {
	Method        string  `json:"method"`
	Price         float64 `json:"price"`
	EstimatedDays string  `json:"estimatedDays"`
}
