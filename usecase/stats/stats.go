// Package stats computes the dashboard aggregates shown next to the records
// list: totals, today's activity and per-product distribution counts.
package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/repository"
)

// Snapshot summarizes the stored record sequence at one point in time.
type Snapshot struct {
	TotalDistributed int            `json:"total_distributed"`
	DistributedToday int            `json:"distributed_today"`
	LastActivity     int64          `json:"last_activity,omitempty"`
	PerProduct       map[string]int `json:"per_product"`
}

type UseCase struct {
	records repository.RecordRepository
	logger  *zap.Logger
	now     func() time.Time
}

func New(records repository.RecordRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		records: records,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot aggregates over the full record sequence in one pass.
func (uc *UseCase) Snapshot(ctx context.Context) (Snapshot, error) {
	records, err := uc.records.GetAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	snap := Snapshot{
		TotalDistributed: len(records),
		PerProduct:       make(map[string]int),
	}
	for _, rec := range records {
		ts := rec.Time()
		if !ts.Before(today) && ts.Before(today.AddDate(0, 0, 1)) {
			snap.DistributedToday++
		}
		snap.PerProduct[rec.ProductName]++
	}
	if len(records) > 0 {
		// records are stored oldest first; the last one is the newest
		snap.LastActivity = records[len(records)-1].Timestamp
	}
	return snap, nil
}

// History returns the most recent records, newest first. A limit of zero or
// less falls back to the dashboard window of 15.
func (uc *UseCase) History(ctx context.Context, nationalID string, limit int) ([]domain.DistributionRecord, error) {
	if limit <= 0 {
		limit = 15
	}

	var records []domain.DistributionRecord
	var err error
	if nationalID != "" {
		records, err = uc.records.FindAllByNationalID(ctx, nationalID)
	} else {
		records, err = uc.records.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.DistributionRecord, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	return out, nil
}
