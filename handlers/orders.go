package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"canvasclub/cart"
	"canvasclub/middleware"
	"canvasclub/models"
	"canvasclub/services"
	"canvasclub/store"
)

type OrderHandler struct {
	writer *services.OrderWriter
	store  *store.Store
}

func NewOrderHandler(writer *services.OrderWriter, s *store.Store) *OrderHandler {
	return &OrderHandler{writer: writer, store: s}
}

type CreateOrderInput struct {
	Items           []cart.Item            `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethodID string                 `json:"paymentMethodId"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid JSON"})
		return
	}

	order, err := h.writer.CreateOrder(profile, input.Items, input.ShippingAddress, input.PaymentMethodID)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: verr.Message})
			return
		}
		fmt.Printf("Create order error: %v\n", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.OrderCreatedResponse{
		Message: "Order created successfully",
		OrderID: order.ID,
	})
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	profile := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, total, err := h.store.ListUserOrders(profile.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, models.OrderListResponse{
		Orders:      orders,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		TotalOrders: total,
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	order, err := h.store.GetOrder(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		return
	}

	// Owner or admin only.
	if !profile.IsAdmin() && order.UserID != profile.ID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Forbidden"})
		return
	}

	resp := models.OrderResponse{Order: *order}
	if order.PrintifyOrderID != "" {
		if details, err := h.writer.FulfillmentDetails(order.PrintifyOrderID); err == nil {
			resp.FulfillmentState = details
		} else {
			fmt.Printf("Error fetching fulfillment details: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Unfulfilled is the admin remediation view for orders that were paid but
// never submitted to the fulfillment provider.
func (h *OrderHandler) Unfulfilled(c *gin.Context) {
	orders, err := h.store.UnfulfilledOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Fulfill resubmits a paid, unfulfilled order to the fulfillment provider.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	order, err := h.store.GetOrder(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		return
	}
	if order.PrintifyOrderID != "" {
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Order already submitted for fulfillment"})
		return
	}

	owner, err := h.store.GetProfileByID(order.UserID)
	if err != nil || owner == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error"})
		return
	}

	if err := h.writer.ResubmitFulfillment(order, owner.Email); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Fulfillment submission failed", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order submitted for fulfillment", "order": order})
}
