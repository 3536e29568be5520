package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wishlist-service/pkg/errors"
)

func TestCustomerAndProduct(t *testing.T) {
	tests := []struct {
		name       string
		customerID string
		productID  string
		wantCode   string
	}{
		{name: "valid", customerID: "cust-001", productID: "prod-001"},
		{name: "empty customer", customerID: "", productID: "prod-001", wantCode: errors.CodeInvalidCustomerID},
		{name: "blank customer", customerID: " \t ", productID: "prod-001", wantCode: errors.CodeInvalidCustomerID},
		{name: "both blank reports customer", customerID: " ", productID: " ", wantCode: errors.CodeInvalidCustomerID},
		{name: "blank product", customerID: "cust-001", productID: "  ", wantCode: errors.CodeInvalidProductID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CustomerAndProduct(tt.customerID, tt.productID)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
