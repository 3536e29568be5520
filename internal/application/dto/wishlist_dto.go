package dto

import (
	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/pkg/response"
)

const AddProductSuccessMessage = "Product added to wishlist successfully"

type ProductItem struct {
	ProductID string             `json:"productId"`
	AddedAt   response.Timestamp `json:"addedAt"`
}

type WishlistResponse struct {
	CustomerID string        `json:"customerId"`
	Products   []ProductItem `json:"products"`
	TotalItems int           `json:"totalItems"`
	MaxItems   int           `json:"maxItems"`
}

type AddProductResponse struct {
	Message    string             `json:"message"`
	CustomerID string             `json:"customerId"`
	ProductID  string             `json:"productId"`
	AddedAt    response.Timestamp `json:"addedAt"`
}

type ProductExistsResponse struct {
	CustomerID string             `json:"customerId"`
	ProductID  string             `json:"productId"`
	Exists     bool               `json:"exists"`
	AddedAt    response.Timestamp `json:"addedAt"`
}

// NewWishlistResponse projects w in insertion order. products is never null.
func NewWishlistResponse(w *aggregate.Wishlist) *WishlistResponse {
	products := w.Products()
	items := make([]ProductItem, 0, len(products))
	for _, p := range products {
		items = append(items, ProductItem{
			ProductID: p.ProductID(),
			AddedAt:   response.NewTimestamp(p.AddedAt()),
		})
	}

	return &WishlistResponse{
		CustomerID: w.CustomerID(),
		Products:   items,
		TotalItems: len(items),
		MaxItems:   aggregate.MaxWishlistProducts,
	}
}

func NewAddProductResponse(customerID string, product aggregate.WishlistProduct) *AddProductResponse {
	return &AddProductResponse{
		Message:    AddProductSuccessMessage,
		CustomerID: customerID,
		ProductID:  product.ProductID(),
		AddedAt:    response.NewTimestamp(product.AddedAt()),
	}
}

func NewProductExistsResponse(customerID string, product aggregate.WishlistProduct) *ProductExistsResponse {
	return &ProductExistsResponse{
		CustomerID: customerID,
		ProductID:  product.ProductID(),
		Exists:     true,
		AddedAt:    response.NewTimestamp(product.AddedAt()),
	}
}
