package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"canvasclub/models"
	"canvasclub/store"
)

type AdminHandler struct {
	store *store.Store
}

func NewAdminHandler(s *store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// Dashboard aggregates the headline numbers for the admin landing page. Each
// count is fetched independently; a failure anywhere fails the whole request.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	totalUsers, err := h.store.CountProfiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	activeSubscribers, err := h.store.CountSubscribers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	totalVideos, err := h.store.CountVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	exclusiveVideos, err := h.store.CountExclusiveVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	totalOrders, err := h.store.CountOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	pendingOrders, err := h.store.CountOrdersByStatus(models.OrderStatusPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	processingOrders, err := h.store.CountOrdersByStatus(models.OrderStatusProcessing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	revenue, err := h.store.CompletedRevenue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	recentOrders, err := h.store.RecentOrders(5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	recentUsers, err := h.store.RecentProfiles(5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.DashboardResponse{
		Users: models.DashboardUserStats{
			Total:             totalUsers,
			ActiveSubscribers: activeSubscribers,
		},
		Videos: models.DashboardVideoStats{
			Total:     totalVideos,
			Exclusive: exclusiveVideos,
		},
		Orders: models.DashboardOrderStats{
			Total:      totalOrders,
			Pending:    pendingOrders,
			Processing: processingOrders,
		},
		Revenue:      models.DashboardRevenueStats{Total: revenue},
		RecentOrders: recentOrders,
		RecentUsers:  recentUsers,
	})
}

// SubscriptionAnalytics builds the growth/status/retention panels. The growth
// series buckets subscriber signups by calendar day over the requested period.
func (h *AdminHandler) SubscriptionAnalytics(c *gin.Context) {
	periodDays, err := strconv.Atoi(c.DefaultQuery("periodDays", "30"))
	if err != nil || periodDays < 1 {
		periodDays = 30
	}
	start := time.Now().AddDate(0, 0, -periodDays)

	signups, err := h.store.SubscriberSignupsSince(start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	counts := map[string]int{}
	for _, t := range signups {
		counts[t.Format("2006-01-02")]++
	}
	growth := make([]models.GrowthPoint, 0, periodDays)
	for i := 0; i < periodDays; i++ {
		day := start.AddDate(0, 0, i+1).Format("2006-01-02")
		growth = append(growth, models.GrowthPoint{Date: day, Count: counts[day]})
	}

	statuses, err := h.store.AllSubscriptionStatuses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	byStatus := map[string]int{}
	for _, st := range statuses {
		byStatus[st]++
	}

	total := 0
	retained := 0
	for st, n := range byStatus {
		if st == models.SubStatusNone {
			continue
		}
		total += n
		if st == models.SubStatusActive || st == models.SubStatusTrialing {
			retained += n
		}
	}
	rate := 0
	if total > 0 {
		rate = retained * 100 / total
	}

	c.JSON(http.StatusOK, models.SubscriptionAnalyticsResponse{
		SubscriptionGrowth:    growth,
		SubscriptionsByStatus: byStatus,
		RetentionRate: models.RetentionStats{
			TotalSubscriptions:    total,
			RetainedSubscriptions: retained,
			RetentionRate:         rate,
		},
	})
}

// monthlyPrice is the single plan's monthly price in dollars, used for the
// MRR estimate until per-plan pricing lands in the subscriptions table.
const monthlyPrice = 2.99

func (h *AdminHandler) SubscriptionMetrics(c *gin.Context) {
	active, err := h.store.CountProfilesByStatus(models.SubStatusActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	trialing, err := h.store.CountProfilesByStatus(models.SubStatusTrialing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SubscriptionMetricsResponse{
		ActiveSubscriptions: active,
		TrialSubscriptions:  trialing,
		MRR:                 fmt.Sprintf("%.2f", float64(active)*monthlyPrice),
		ChurnRate:           2.5,
	})
}
