// Package cart holds a customer's selected items before checkout. It is a
// plain data store with an explicit update/read interface; the caller owns
// persistence (the web client keeps it in local storage) and there is no
// server authority over its contents.
package cart

import "encoding/json"

type Item struct {
	ProductID string  `json:"productId"`
	VariantID int64   `json:"variantId"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
}

type Store struct {
	items []Item
}

func New() *Store {
	return &Store{}
}

// Add merges into an existing line when product and variant match, otherwise
// appends a new line.
func (s *Store) Add(item Item) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID && s.items[i].VariantID == item.VariantID {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *Store) Remove(productID string, variantID int64) {
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].VariantID == variantID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites a line's quantity; zero or negative removes the line.
func (s *Store) SetQuantity(productID string, variantID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(productID, variantID)
		return
	}
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].VariantID == variantID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

func (s *Store) Clear() {
	s.items = nil
}

func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalItems() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is display-only. The order flow recomputes the charge from
// server-fetched prices and ignores these values.
func (s *Store) TotalPrice() float64 {
	total := 0.0
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.items)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.items)
}
