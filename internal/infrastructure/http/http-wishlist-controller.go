package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wishlist-service/internal/application/services"
	"wishlist-service/pkg/middleware"
	"wishlist-service/pkg/response"
)

// HTTPWishlistController handles HTTP requests for wishlist operations
type HTTPWishlistController struct {
	wishlistService *services.WishlistService
}

// NewHTTPWishlistController creates a new HTTP wishlist controller
func NewHTTPWishlistController(wishlistService *services.WishlistService) *HTTPWishlistController {
	return &HTTPWishlistController{
		wishlistService: wishlistService,
	}
}

// RegisterRoutes mounts the five wishlist routes on r.
func (c *HTTPWishlistController) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/customers/{customerId}/wishlist", func(r chi.Router) {
		r.Get("/", c.GetWishlist)
		r.Delete("/", c.ClearWishlist)
		r.Post("/products/{productId}", c.AddProduct)
		r.Get("/products/{productId}", c.CheckProductExists)
		r.Delete("/products/{productId}", c.RemoveProduct)
	})
}

func customerFromPath(r *http.Request) (string, error) {
	customerID, err := pathParam(r, "customerId")
	if err != nil {
		return "", err
	}
	if err := validateParams(customerParams{CustomerID: customerID}); err != nil {
		return "", err
	}
	return customerID, nil
}

func customerAndProductFromPath(r *http.Request) (string, string, error) {
	customerID, err := pathParam(r, "customerId")
	if err != nil {
		return "", "", err
	}
	productID, err := pathParam(r, "productId")
	if err != nil {
		return "", "", err
	}
	if err := validateParams(customerProductParams{CustomerID: customerID, ProductID: productID}); err != nil {
		return "", "", err
	}
	return customerID, productID, nil
}

// GetWishlist handles GET /api/v1/customers/{customerId}/wishlist
func (c *HTTPWishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerFromPath(r)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	resp, err := c.wishlistService.GetWishlist(r.Context(), customerID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, resp)
}

// AddProduct handles POST /api/v1/customers/{customerId}/wishlist/products/{productId}
func (c *HTTPWishlistController) AddProduct(w http.ResponseWriter, r *http.Request) {
	customerID, productID, err := customerAndProductFromPath(r)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	resp, err := c.wishlistService.AddProduct(r.Context(), customerID, productID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendCreated(w, resp)
}

// RemoveProduct handles DELETE /api/v1/customers/{customerId}/wishlist/products/{productId}
func (c *HTTPWishlistController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	customerID, productID, err := customerAndProductFromPath(r)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	if err := c.wishlistService.RemoveProduct(r.Context(), customerID, productID); err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendNoContent(w)
}

// CheckProductExists handles GET /api/v1/customers/{customerId}/wishlist/products/{productId}
func (c *HTTPWishlistController) CheckProductExists(w http.ResponseWriter, r *http.Request) {
	customerID, productID, err := customerAndProductFromPath(r)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	resp, err := c.wishlistService.CheckProductExists(r.Context(), customerID, productID)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, resp)
}

// ClearWishlist handles DELETE /api/v1/customers/{customerId}/wishlist
func (c *HTTPWishlistController) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	customerID, err := customerFromPath(r)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	if err := c.wishlistService.ClearWishlist(r.Context(), customerID); err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendNoContent(w)
}
