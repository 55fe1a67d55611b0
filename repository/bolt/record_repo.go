package bolt

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/repository"
)

// RecordsSlot is the store slot holding the whole record sequence.
const RecordsSlot = "distribution_records_v2"

type recordRepository struct {
	store  *kvstore.Store
	logger *zap.Logger
}

// NewRecordRepository returns a Bolt-backed implementation of RecordRepository.
func NewRecordRepository(store *kvstore.Store, logger *zap.Logger) repository.RecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recordRepository{store: store, logger: logger}
}

func (r *recordRepository) GetAll(ctx context.Context) ([]domain.DistributionRecord, error) {
	raw, err := r.store.Get(RecordsSlot)
	if err != nil {
		return nil, err
	}
	return r.decode(raw), nil
}

func (r *recordRepository) Append(ctx context.Context, batch []domain.DistributionRecord) error {
	if len(batch) == 0 {
		return nil
	}
	return r.store.Update(RecordsSlot, func(current []byte) ([]byte, error) {
		records := r.decode(current)

		granted := make(map[[2]string]struct{}, len(records)+len(batch))
		for _, rec := range records {
			granted[[2]string{rec.NationalID, rec.ProductID}] = struct{}{}
		}
		for _, rec := range batch {
			key := [2]string{rec.NationalID, rec.ProductID}
			if _, ok := granted[key]; ok {
				return nil, domain.ErrProductAlreadyGranted
			}
			granted[key] = struct{}{}
		}

		return json.Marshal(append(records, batch...))
	})
}

func (r *recordRepository) FindAllByNationalID(ctx context.Context, nationalID string) ([]domain.DistributionRecord, error) {
	records, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []domain.DistributionRecord
	for _, rec := range records {
		if rec.NationalID == nationalID {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// decode degrades absent or corrupt slot data to an empty sequence.
func (r *recordRepository) decode(raw []byte) []domain.DistributionRecord {
	if len(raw) == 0 {
		return nil
	}
	var records []domain.DistributionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		r.logger.Warn("records slot holds unreadable data, treating as empty",
			zap.String("slot", RecordsSlot), zap.Error(err))
		return nil
	}
	return records
}
