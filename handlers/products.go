package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"canvasclub/models"
	"canvasclub/services"
)

type ProductHandler struct {
	catalog *services.Catalog
}

func NewProductHandler(catalog *services.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	resp, err := h.catalog.ListProducts(services.ListProductsOptions{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Product: *product})
}

func (h *ProductHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: services.DefaultCategories()})
}

func (h *ProductHandler) ShippingEstimates(c *gin.Context) {
	c.JSON(http.StatusOK, models.ShippingEstimatesResponse{
		ShippingEstimates: services.StaticShippingEstimates(),
	})
}
