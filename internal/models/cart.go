package models

// CartSummary is a point-in-time snapshot of the shopper's cart.
type CartSummary struct {
	Items  int     `json:"items" yaml:"items"`
	Total  float64 `json:"total" yaml:"total"`
	Status string  `json:"status,omitempty" yaml:"status"`
}
