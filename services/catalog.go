package services

import (
	"math"
	"strings"
	"time"

	"canvasclub/models"
)

// productFetcher is the slice of the Printify client the catalog needs.
type productFetcher interface {
	GetProducts() ([]PrintifyProduct, error)
	GetProduct(productID string) (*PrintifyProduct, error)
}

// Catalog is a read-only pass-through to the fulfillment provider. Every call
// refetches upstream; there is no caching inside the request lifetime.
type Catalog struct {
	printify productFetcher
}

func NewCatalog(printify productFetcher) *Catalog {
	return &Catalog{printify: printify}
}

type ListProductsOptions struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

func (c *Catalog) ListProducts(opts ListProductsOptions) (*models.ProductListResponse, error) {
	products, err := c.printify.GetProducts()
	if err != nil {
		return nil, err
	}

	filtered := FilterProducts(products, opts.Category, opts.Search)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 12
	}

	total := len(filtered)
	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	formatted := make([]models.Product, 0, end-offset)
	for _, p := range filtered[offset:end] {
		formatted = append(formatted, FormatProduct(p))
	}

	return &models.ProductListResponse{
		Products:      formatted,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:   page,
		TotalProducts: total,
	}, nil
}

func (c *Catalog) GetProduct(productID string) (*models.ProductDetail, error) {
	product, err := c.printify.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	detail := FormatProductDetail(*product)
	return &detail, nil
}

// FilterProducts applies the category and free-text filters in memory. The
// upstream API has no server-side search.
func FilterProducts(products []PrintifyProduct, category, search string) []PrintifyProduct {
	filtered := products

	if category != "" {
		cat := strings.ToLower(category)
		var matched []PrintifyProduct
		for _, p := range filtered {
			for _, t := range p.Tags {
				if strings.Contains(strings.ToLower(t), cat) {
					matched = append(matched, p)
					break
				}
			}
		}
		filtered = matched
	}

	if search != "" {
		s := strings.ToLower(search)
		var matched []PrintifyProduct
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Title), s) ||
				strings.Contains(strings.ToLower(p.Description), s) {
				matched = append(matched, p)
			}
		}
		filtered = matched
	}

	return filtered
}

// FormatProduct reshapes an upstream product for list views: price from the
// first variant in dollars, image from the first variant preview falling back
// to the first product image.
func FormatProduct(p PrintifyProduct) models.Product {
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].Src
	}
	if len(p.Variants) > 0 && p.Variants[0].PreviewImageURL != "" {
		imageURL = p.Variants[0].PreviewImageURL
	}

	price := 0.0
	if len(p.Variants) > 0 {
		price = float64(p.Variants[0].Price) / 100
	}

	return models.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       price,
		ImageURL:    imageURL,
		IsPublished: p.Visible,
		CreatedAt:   parsePrintifyTime(p.CreatedAt),
		UpdatedAt:   parsePrintifyTime(p.UpdatedAt),
	}
}

// FormatProductDetail keeps only enabled variants and prices from the first
// one.
func FormatProductDetail(p PrintifyProduct) models.ProductDetail {
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].Src
	}

	var enabled []models.ProductVariant
	for _, v := range p.Variants {
		if !v.IsEnabled {
			continue
		}
		enabled = append(enabled, models.ProductVariant{
			ID:           v.ID,
			Title:        v.Title,
			Price:        float64(v.Price) / 100,
			IsEnabled:    true,
			PreviewImage: v.PreviewImageURL,
		})
	}

	price := 0.0
	if len(enabled) > 0 {
		price = enabled[0].Price
	}

	images := make([]models.ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, models.ProductImage{Src: img.Src, Position: img.Position})
	}

	return models.ProductDetail{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       price,
		ImageURL:    imageURL,
		Images:      images,
		Variants:    enabled,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parsePrintifyTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 -0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DefaultCategories mirrors the storefront's fixed category list.
func DefaultCategories() []string {
	return []string{"Canvas Print", "Wall Art", "Home Decor"}
}

// StaticShippingEstimates returns the storefront's flat shipping options.
func StaticShippingEstimates() []models.ShippingEstimate {
	return []models.ShippingEstimate{
		{Method: "Standard Shipping", Price: 5.99, EstimatedDays: "5-7"},
		{Method: "Express Shipping", Price: 12.99, EstimatedDays: "2-3"},
	}
}
