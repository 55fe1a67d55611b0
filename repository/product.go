package repository

import (
	"context"

	"github.com/tozikala/backend/domain"
)

// ProductRepository stores the catalog as a whole-collection value.
// The first read from an empty store seeds and persists the default
// catalog; an explicitly emptied catalog is never re-seeded.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	SaveAll(ctx context.Context, products []domain.Product) error
	Add(ctx context.Context, name string) (*domain.Product, error)
	Update(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
