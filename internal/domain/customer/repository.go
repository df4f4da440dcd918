package customer

import (
	"context"
)

type CustomerRepository interface {
	// Save inserts the customer and sets its store-assigned id.
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)
}
