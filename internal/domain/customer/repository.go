package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicateID = errors.New("customer ID already exists")
)

type Repository interface {
	// Upsert creates the customer if the ID is unseen, otherwise overwrites
	// every mapped field in place. Returns true when a new row was created.
	Upsert(ctx context.Context, cust *Customer) (created bool, err error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	// NextID returns the next free customer identifier. Identifiers are
	// externally visible and continue the sequence established by imports.
	NextID(ctx context.Context) (int64, error)
}
