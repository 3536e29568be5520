package command

// AddProduct command
type AddProduct struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
}

// RemoveProduct command
type RemoveProduct struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
}

// ClearWishlist command
type ClearWishlist struct {
	CustomerID string `json:"customer_id"`
}
