// Package guard holds the identifier checks every use case runs before any I/O.
package guard

import (
	"strings"

	"wishlist-service/pkg/errors"
)

func CustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return errors.NewInvalidCustomerIDError("Customer ID cannot be null or empty")
	}
	return nil
}

func ProductID(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return errors.NewInvalidProductIDError("Product ID cannot be null or empty")
	}
	return nil
}

// CustomerAndProduct checks the customer first, matching route parameter order.
func CustomerAndProduct(customerID, productID string) error {
	if err := CustomerID(customerID); err != nil {
		return err
	}
	return ProductID(productID)
}
