package domain

// CartItem is one line of a cart: a distinct menu item and its quantity.
// The display metadata is captured when the item is first added and does
// not change afterwards.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
