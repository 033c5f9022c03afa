package models

import "time"

// Response schemas are explicit per endpoint instead of ad hoc object
// literals, so every handler returns a stable, documented shape.

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type ProductListResponse struct {
	Products      []Product `json:"products"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	TotalProducts int       `json:"totalProducts"`
}

type ProductResponse struct {
	Product ProductDetail `json:"product"`
}

type OrderCreatedResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type OrderListResponse struct {
	Orders      []Order `json:"orders"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	TotalOrders int     `json:"totalOrders"`
}

type OrderResponse struct {
	Order            Order       `json:"order"`
	FulfillmentState interface{} `json:"printifyDetails,omitempty"`
}

// SubscriptionInfo is the client-facing projection of a subscription.
type SubscriptionInfo struct {
	ID                string     `json:"id"`
	StripeID          string     `json:"stripeId,omitempty"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	Plan              *Plan      `json:"plan,omitempty"`
}

type SubscriptionResponse struct {
	Message      string           `json:"message,omitempty"`
	Subscription SubscriptionInfo `json:"subscription"`
}

type CurrentSubscriptionResponse struct {
	Subscription *SubscriptionInfo `json:"subscription"`
	Message      string            `json:"message,omitempty"`
}

type SetupIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type PlanListResponse struct {
	Plans []Plan `json:"plans"`
}

type VideoListResponse struct {
	Videos      []Video `json:"videos"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	TotalVideos int     `json:"totalVideos"`
}

type VideoResponse struct {
	Video Video `json:"video"`
}

type TagListResponse struct {
	Tags []Tag `json:"tags"`
}

type ContactListResponse struct {
	Messages []ContactMessage `json:"messages"`
}

type ContactMessageResponse struct {
	Message string         `json:"message"`
	Data    ContactMessage `json:"data"`
}

type DashboardUserStats struct {
	Total             int `json:"total"`
	ActiveSubscribers int `json:"activeSubscribers"`
}

type DashboardVideoStats struct {
	Total     int `json:"total"`
	Exclusive int `json:"exclusive"`
}

type DashboardOrderStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
}

type DashboardRevenueStats struct {
	Total float64 `json:"total"`
}

type DashboardResponse struct {
	Users        DashboardUserStats    `json:"users"`
	Videos       DashboardVideoStats   `json:"videos"`
	Orders       DashboardOrderStats   `json:"orders"`
	Revenue      DashboardRevenueStats `json:"revenue"`
	RecentOrders []Order               `json:"recentOrders"`
	RecentUsers  []Profile             `json:"recentUsers"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type RetentionStats struct {
	TotalSubscriptions    int `json:"totalSubscriptions"`
	RetainedSubscriptions int `json:"retainedSubscriptions"`
	RetentionRate         int `json:"retentionRate"`
}

type SubscriptionAnalyticsResponse struct {
	SubscriptionGrowth    []GrowthPoint  `json:"subscriptionGrowth"`
	SubscriptionsByStatus map[string]int `json:"subscriptionsByStatus"`
	RetentionRate         RetentionStats `json:"retentionRate"`
}

type SubscriptionMetricsResponse struct {
	ActiveSubscriptions int    `json:"activeSubscriptions"`
	TrialSubscriptions  int    `json:"trialSubscriptions"`
	MRR                 string `json:"mrr"`
	ChurnRate           float64 `json:"churnRate"`
}

type ShippingEstimatesResponse struct {
	ShippingEstimates []ShippingEstimate `json:"shippingEstimates"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
