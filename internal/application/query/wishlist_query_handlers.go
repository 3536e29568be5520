package query

import (
	"context"

	"wishlist-service/internal/application/dto"
	"wishlist-service/internal/application/guard"
	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/domain/repository"
	"wishlist-service/pkg/errors"
)

// GetWishlist represents a query to get a customer's wishlist
type GetWishlist struct {
	CustomerID string `json:"customer_id"`
}

// CheckProductExists represents a query for one product's add time
type CheckProductExists struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
}

// loadOrEmpty treats a missing document as an empty, unsaved wishlist.
func loadOrEmpty(ctx context.Context, repo repository.WishlistRepository, customerID string) (*aggregate.Wishlist, error) {
	wishlist, err := repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if wishlist != nil {
		return wishlist, nil
	}

	wishlist, err = aggregate.NewWishlist(customerID)
	if err != nil {
		return nil, errors.NewInvalidCustomerIDError("Customer ID cannot be null or empty")
	}
	return wishlist, nil
}

// GetWishlistHandler handles get wishlist queries
type GetWishlistHandler struct {
	repo repository.WishlistRepository
}

func NewGetWishlistHandler(repo repository.WishlistRepository) *GetWishlistHandler {
	return &GetWishlistHandler{repo: repo}
}

func (h *GetWishlistHandler) Handle(ctx context.Context, query *GetWishlist) (*dto.WishlistResponse, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}
	if err := guard.CustomerID(query.CustomerID); err != nil {
		return nil, err
	}

	wishlist, err := loadOrEmpty(ctx, h.repo, query.CustomerID)
	if err != nil {
		return nil, err
	}
	return dto.NewWishlistResponse(wishlist), nil
}

// CheckProductExistsHandler handles product existence queries
type CheckProductExistsHandler struct {
	repo repository.WishlistRepository
}

func NewCheckProductExistsHandler(repo repository.WishlistRepository) *CheckProductExistsHandler {
	return &CheckProductExistsHandler{repo: repo}
}

// Handle never reports exists=false; a missing product is PRODUCT_NOT_FOUND.
func (h *CheckProductExistsHandler) Handle(ctx context.Context, query *CheckProductExists) (*dto.ProductExistsResponse, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}
	if err := guard.CustomerAndProduct(query.CustomerID, query.ProductID); err != nil {
		return nil, err
	}

	wishlist, err := loadOrEmpty(ctx, h.repo, query.CustomerID)
	if err != nil {
		return nil, err
	}

	product, ok := wishlist.FindProduct(query.ProductID)
	if !ok {
		return nil, errors.NewProductNotFoundError("Product not found in wishlist")
	}
	return dto.NewProductExistsResponse(query.CustomerID, product), nil
}
