package bolt

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/repository"
)

// ProductsSlot is the store slot holding the whole catalog.
const ProductsSlot = "distribution_products_v2"

type productRepository struct {
	store  *kvstore.Store
	logger *zap.Logger
}

// NewProductRepository returns a Bolt-backed implementation of ProductRepository.
func NewProductRepository(store *kvstore.Store, logger *zap.Logger) repository.ProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &productRepository{store: store, logger: logger}
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	raw, err := r.store.Get(ProductsSlot)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		return r.decode(raw), nil
	}

	// First-ever read: seed and persist the default catalog. The check and
	// the write share one transaction so two racing first readers cannot
	// both seed. Once any value exists, even an emptied one, this branch
	// never writes again.
	var seeded []domain.Product
	err = r.store.Update(ProductsSlot, func(current []byte) ([]byte, error) {
		if current != nil {
			raw = current
			return current, nil
		}
		seeded = domain.DefaultProducts()
		return json.Marshal(seeded)
	})
	if err != nil {
		return nil, err
	}
	if raw != nil {
		return r.decode(raw), nil
	}
	return seeded, nil
}

func (r *productRepository) SaveAll(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.store.Put(ProductsSlot, payload)
}

func (r *productRepository) Add(ctx context.Context, name string) (*domain.Product, error) {
	product := domain.Product{ID: uuid.NewString(), Name: name}
	if err := r.mutate(func(products []domain.Product) ([]domain.Product, error) {
		return append(products, product), nil
	}); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, id, name string) error {
	return r.mutate(func(products []domain.Product) ([]domain.Product, error) {
		for i := range products {
			if products[i].ID == id {
				products[i].Name = name
				return products, nil
			}
		}
		return nil, domain.ErrProductNotFound
	})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.mutate(func(products []domain.Product) ([]domain.Product, error) {
		remaining := products[:0]
		for _, p := range products {
			if p.ID != id {
				remaining = append(remaining, p)
			}
		}
		return remaining, nil
	})
}

// mutate applies fn to the current catalog and writes the result back inside
// a single store transaction, so concurrent mutations cannot drop each
// other's writes. A mutation on a never-written slot sees the seeded
// defaults, matching what a prior GetAll would have persisted.
func (r *productRepository) mutate(fn func(products []domain.Product) ([]domain.Product, error)) error {
	return r.store.Update(ProductsSlot, func(current []byte) ([]byte, error) {
		var products []domain.Product
		if current == nil {
			products = domain.DefaultProducts()
		} else {
			products = r.decode(current)
		}
		next, err := fn(products)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []domain.Product{}
		}
		return json.Marshal(next)
	})
}

// decode degrades corrupt slot data to an empty catalog.
func (r *productRepository) decode(raw []byte) []domain.Product {
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		r.logger.Warn("products slot holds unreadable data, treating as empty",
			zap.String("slot", ProductsSlot), zap.Error(err))
		return nil
	}
	return products
}
