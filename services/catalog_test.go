package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	products []PrintifyProduct
	err      error
}

func (f *fakeFetcher) GetProducts() ([]PrintifyProduct, error) {
	return f.products, f.err
}

func (f *fakeFetcher) GetProduct(productID string) (*PrintifyProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == productID {
			return &f.products[i], nil
		}
	}
	return nil, errors.New("not found")
}

func sampleProducts() []PrintifyProduct {
	return []PrintifyProduct{
		{
			ID:          "p1",
			Title:       "Sunset Canvas",
			Description: "A warm sunset",
			Tags:        []string{"Canvas Print"},
			Visible:     true,
			Images:      []PrintifyImage{{Src: "https://img/p1.jpg"}},
			Variants: []PrintifyVariant{
				{ID: 11, Title: "12x16", Price: 1250, IsEnabled: true, PreviewImageURL: "https://img/p1-variant.jpg"},
				{ID: 12, Title: "24x36", Price: 3499, IsEnabled: true},
			},
			CreatedAt: "2025-01-15T10:00:00+00:00",
		},
		{
			ID:          "p2",
			Title:       "Mountain Wall Art",
			Description: "Snowy peaks",
			Tags:        []string{"Wall Art"},
			Visible:     true,
			Images:      []PrintifyImage{{Src: "https://img/p2.jpg"}},
			Variants: []PrintifyVariant{
				{ID: 21, Title: "12x16", Price: 2000, IsEnabled: false},
				{ID: 22, Title: "18x24", Price: 2500, IsEnabled: true},
			},
		},
		{
			ID:          "p3",
			Title:       "Ocean Print",
			Description: "Deep blue waves",
			Tags:        []string{"Canvas Print", "Home Decor"},
			Visible:     true,
			Variants:    []PrintifyVariant{{ID: 31, Price: 1800, IsEnabled: true}},
		},
	}
}

func TestFilterProductsByCategory(t *testing.T) {
	filtered := FilterProducts(sampleProducts(), "canvas", "")
	require.Len(t, filtered, 2)
	assert.Equal(t, "p1", filtered[0].ID)
	assert.Equal(t, "p3", filtered[1].ID)
}

func TestFilterProductsBySearch(t *testing.T) {
	filtered := FilterProducts(sampleProducts(), "", "waves")
	require.Len(t, filtered, 1)
	assert.Equal(t, "p3", filtered[0].ID)

	// Title matches too, case-insensitively.
	filtered = FilterProducts(sampleProducts(), "", "MOUNTAIN")
	require.Len(t, filtered, 1)
	assert.Equal(t, "p2", filtered[0].ID)
}

func TestFilterProductsCombined(t *testing.T) {
	filtered := FilterProducts(sampleProducts(), "canvas", "sunset")
	require.Len(t, filtered, 1)
	assert.Equal(t, "p1", filtered[0].ID)

	assert.Empty(t, FilterProducts(sampleProducts(), "wall art", "sunset"))
}

func TestFormatProduct(t *testing.T) {
	p := FormatProduct(sampleProducts()[0])

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 12.50, p.Price)
	// Variant preview wins over the product image.
	assert.Equal(t, "https://img/p1-variant.jpg", p.ImageURL)
	assert.True(t, p.IsPublished)
	assert.Equal(t, 2025, p.CreatedAt.Year())
}

func TestFormatProductFallbackImage(t *testing.T) {
	p := FormatProduct(sampleProducts()[1])
	assert.Equal(t, "https://img/p2.jpg", p.ImageURL)
	assert.Equal(t, 20.00, p.Price)
}

func TestFormatProductDetailEnabledVariantsOnly(t *testing.T) {
	d := FormatProductDetail(sampleProducts()[1])

	require.Len(t, d.Variants, 1)
	assert.Equal(t, int64(22), d.Variants[0].ID)
	assert.Equal(t, 25.00, d.Variants[0].Price)
	// Price comes from the first enabled variant, not the first variant.
	assert.Equal(t, 25.00, d.Price)
}

func TestListProductsPagination(t *testing.T) {
	catalog := NewCatalog(&fakeFetcher{products: sampleProducts()})

	resp, err := catalog.ListProducts(ListProductsOptions{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, 3, resp.TotalProducts)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)

	resp, err = catalog.ListProducts(ListProductsOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "p3", resp.Products[0].ID)

	// Past the end is an empty page, not an error.
	resp, err = catalog.ListProducts(ListProductsOptions{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
}

func TestListProductsDefaults(t *testing.T) {
	catalog := NewCatalog(&fakeFetcher{products: sampleProducts()})

	resp, err := catalog.ListProducts(ListProductsOptions{Page: 0, Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Len(t, resp.Products, 3)
}

func TestListProductsUpstreamError(t *testing.T) {
	catalog := NewCatalog(&fakeFetcher{err: errors.New("printify down")})

	_, err := catalog.ListProducts(ListProductsOptions{})
	assert.Error(t, err)
}
