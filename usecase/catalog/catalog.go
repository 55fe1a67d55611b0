// Package catalog manages the product catalog. Deleting a product is
// irreversible for the catalog but never touches historical records.
package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/events"
	"github.com/tozikala/backend/repository"
)

type UseCase struct {
	products repository.ProductRepository
	bus      *events.Bus
	logger   *zap.Logger
}

func New(products repository.ProductRepository, bus *events.Bus, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		products: products,
		bus:      bus,
		logger:   logger,
	}
}

func (uc *UseCase) List(ctx context.Context) ([]domain.Product, error) {
	return uc.products.GetAll(ctx)
}

func (uc *UseCase) Create(ctx context.Context, name string) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidPayload
	}
	product, err := uc.products.Add(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("product created", zap.String("id", product.ID), zap.String("name", product.Name))
	uc.notify()
	return product, nil
}

func (uc *UseCase) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return domain.ErrInvalidPayload
	}
	if err := uc.products.Update(ctx, id, name); err != nil {
		return err
	}
	uc.logger.Info("product renamed", zap.String("id", id), zap.String("name", name))
	uc.notify()
	return nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidPayload
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("id", id))
	uc.notify()
	return nil
}

func (uc *UseCase) notify() {
	if uc.bus != nil {
		uc.bus.Publish(events.TopicCatalogChanged)
	}
}
