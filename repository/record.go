package repository

import (
	"context"

	"github.com/tozikala/backend/domain"
)

// RecordRepository stores distribution records as an append-only sequence.
type RecordRepository interface {
	GetAll(ctx context.Context) ([]domain.DistributionRecord, error)
	// Append persists the batch as one write. It rejects the whole batch
	// with a conflict error when any (nationalId, productId) pair is
	// already on file or duplicated within the batch.
	Append(ctx context.Context, batch []domain.DistributionRecord) error
	FindAllByNationalID(ctx context.Context, nationalID string) ([]domain.DistributionRecord, error)
}
