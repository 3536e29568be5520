package services

import (
	"context"

	"wishlist-service/internal/application/command"
	"wishlist-service/internal/application/dto"
	"wishlist-service/internal/application/query"
	"wishlist-service/internal/domain/repository"
	"wishlist-service/internal/infrastructure/bus"
)

// WishlistService orchestrates wishlist operations
type WishlistService struct {
	// Command handlers
	addProductHandler    *command.AddProductHandler
	removeProductHandler *command.RemoveProductHandler
	clearWishlistHandler *command.ClearWishlistHandler

	// Query handlers
	getWishlistHandler        *query.GetWishlistHandler
	checkProductExistsHandler *query.CheckProductExistsHandler
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(
	addProductHandler *command.AddProductHandler,
	removeProductHandler *command.RemoveProductHandler,
	clearWishlistHandler *command.ClearWishlistHandler,
	getWishlistHandler *query.GetWishlistHandler,
	checkProductExistsHandler *query.CheckProductExistsHandler,
) *WishlistService {
	return &WishlistService{
		addProductHandler:         addProductHandler,
		removeProductHandler:      removeProductHandler,
		clearWishlistHandler:      clearWishlistHandler,
		getWishlistHandler:        getWishlistHandler,
		checkProductExistsHandler: checkProductExistsHandler,
	}
}

// NewWishlistServiceFromRepository builds every handler over one repository and bus.
func NewWishlistServiceFromRepository(repo repository.WishlistRepository, eventBus bus.EventBus) *WishlistService {
	return NewWishlistService(
		command.NewAddProductHandler(repo, eventBus),
		command.NewRemoveProductHandler(repo, eventBus),
		command.NewClearWishlistHandler(repo, eventBus),
		query.NewGetWishlistHandler(repo),
		query.NewCheckProductExistsHandler(repo),
	)
}

// Command operations

// AddProduct adds a product to the customer's wishlist
func (s *WishlistService) AddProduct(ctx context.Context, customerID, productID string) (*dto.AddProductResponse, error) {
	return s.addProductHandler.Handle(ctx, &command.AddProduct{CustomerID: customerID, ProductID: productID})
}

// RemoveProduct removes a product from the customer's wishlist
func (s *WishlistService) RemoveProduct(ctx context.Context, customerID, productID string) error {
	return s.removeProductHandler.Handle(ctx, &command.RemoveProduct{CustomerID: customerID, ProductID: productID})
}

// ClearWishlist deletes the customer's wishlist
func (s *WishlistService) ClearWishlist(ctx context.Context, customerID string) error {
	return s.clearWishlistHandler.Handle(ctx, &command.ClearWishlist{CustomerID: customerID})
}

// Query operations

// GetWishlist returns the customer's wishlist, empty when none is stored
func (s *WishlistService) GetWishlist(ctx context.Context, customerID string) (*dto.WishlistResponse, error) {
	return s.getWishlistHandler.Handle(ctx, &query.GetWishlist{CustomerID: customerID})
}

// CheckProductExists returns when the product was added
func (s *WishlistService) CheckProductExists(ctx context.Context, customerID, productID string) (*dto.ProductExistsResponse, error) {
	return s.checkProductExistsHandler.Handle(ctx, &query.CheckProductExists{CustomerID: customerID, ProductID: productID})
}
