// Package verification drives the lookup/registration workflow: a national
// id is checked, eligible goods are selected, and the batch is committed as
// append-only distribution records.
package verification

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/events"
	"github.com/tozikala/backend/pkg/nationalid"
	"github.com/tozikala/backend/repository"
)

// UseCase holds the single operator session. All transitions run under one
// mutex, preserving the run-to-completion model of the original flow.
type UseCase struct {
	records  repository.RecordRepository
	products repository.ProductRepository
	bus      *events.Bus
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	session session
}

type session struct {
	status       domain.SessionStatus
	nationalID   string
	fullName     string
	priorRecords []domain.DistributionRecord
	selected     []string
}

func New(records repository.RecordRepository, products repository.ProductRepository, bus *events.Bus, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		records:  records,
		products: products,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
		session:  session{status: domain.StatusIdle},
	}
}

// Check validates the national id and, when valid, loads the person's prior
// records and opens a CHECKED session. An invalid id yields the INVALID_ID
// state instead of an error; the next Check re-attempts from scratch.
func (uc *UseCase) Check(ctx context.Context, nationalID string) (domain.VerificationState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !nationalid.IsValid(nationalID) {
		uc.session = session{status: domain.StatusInvalidID, nationalID: nationalID}
		return uc.stateLocked(ctx), nil
	}

	prior, err := uc.records.FindAllByNationalID(ctx, nationalID)
	if err != nil {
		return domain.VerificationState{}, err
	}

	fullName := ""
	if len(prior) > 0 {
		// first stored record wins, matching the lookup convention
		fullName = prior[0].FullName
	}

	uc.session = session{
		status:       domain.StatusChecked,
		nationalID:   nationalID,
		fullName:     fullName,
		priorRecords: prior,
	}
	uc.logger.Info("national id checked",
		zap.String("national_id", nationalID),
		zap.Int("prior_records", len(prior)))
	return uc.stateLocked(ctx), nil
}

// ToggleProduct adds or removes a product from the pending selection.
// Products already on file for the checked national id are ineligible.
func (uc *UseCase) ToggleProduct(ctx context.Context, productID string) (domain.VerificationState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.session.status != domain.StatusChecked {
		return domain.VerificationState{}, domain.ErrNoActiveSession
	}
	for _, rec := range uc.session.priorRecords {
		if rec.ProductID == productID {
			return domain.VerificationState{}, domain.ErrProductIneligible
		}
	}

	for i, id := range uc.session.selected {
		if id == productID {
			uc.session.selected = append(uc.session.selected[:i], uc.session.selected[i+1:]...)
			return uc.stateLocked(ctx), nil
		}
	}

	products, err := uc.products.GetAll(ctx)
	if err != nil {
		return domain.VerificationState{}, err
	}
	if findProduct(products, productID) == nil {
		return domain.VerificationState{}, domain.ErrProductNotFound
	}

	uc.session.selected = append(uc.session.selected, productID)
	return uc.stateLocked(ctx), nil
}

// SetFullName updates the recipient name on the checked session.
func (uc *UseCase) SetFullName(ctx context.Context, fullName string) (domain.VerificationState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.session.status != domain.StatusChecked {
		return domain.VerificationState{}, domain.ErrNoActiveSession
	}
	uc.session.fullName = fullName
	return uc.stateLocked(ctx), nil
}

// Commit writes one record per selected product as a single batch, then
// resets the session and publishes a records-changed notification.
func (uc *UseCase) Commit(ctx context.Context) ([]domain.DistributionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.session.status != domain.StatusChecked {
		return nil, domain.ErrNoActiveSession
	}

	fullName := strings.TrimSpace(uc.session.fullName)
	if fullName == "" || len(uc.session.selected) == 0 {
		return nil, domain.ErrCommitPreconditions
	}

	catalog, err := uc.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := uc.now().UnixMilli()
	batch := make([]domain.DistributionRecord, 0, len(uc.session.selected))
	for _, productID := range uc.session.selected {
		name := domain.UnknownProductName
		if p := findProduct(catalog, productID); p != nil {
			name = p.Name
		}
		batch = append(batch, domain.DistributionRecord{
			ID:          uuid.NewString(),
			NationalID:  uc.session.nationalID,
			ProductID:   productID,
			ProductName: name,
			FullName:    fullName,
			Timestamp:   timestamp,
		})
	}

	if err := uc.records.Append(ctx, batch); err != nil {
		return nil, err
	}

	uc.logger.Info("distribution batch committed",
		zap.String("national_id", uc.session.nationalID),
		zap.Int("records", len(batch)))

	uc.session = session{status: domain.StatusIdle}
	if uc.bus != nil {
		uc.bus.Publish(events.TopicRecordsChanged)
	}
	return batch, nil
}

// Cancel discards the pending session without persisting anything.
func (uc *UseCase) Cancel(ctx context.Context) domain.VerificationState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.session = session{status: domain.StatusIdle}
	return uc.stateLocked(ctx)
}

// State returns a snapshot of the current session.
func (uc *UseCase) State(ctx context.Context) domain.VerificationState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.stateLocked(ctx)
}

func (uc *UseCase) stateLocked(ctx context.Context) domain.VerificationState {
	state := domain.VerificationState{
		Status:     uc.session.status,
		NationalID: uc.session.nationalID,
	}
	if uc.session.status != domain.StatusChecked {
		return state
	}

	state.FullName = uc.session.fullName
	state.PriorRecords = uc.session.priorRecords
	state.SelectedProductIDs = append([]string(nil), uc.session.selected...)

	catalog, err := uc.products.GetAll(ctx)
	if err != nil {
		uc.logger.Warn("catalog unavailable while building session state", zap.Error(err))
		return state
	}
	received := make(map[string]struct{}, len(uc.session.priorRecords))
	for _, rec := range uc.session.priorRecords {
		received[rec.ProductID] = struct{}{}
	}
	for _, p := range catalog {
		if _, ok := received[p.ID]; !ok {
			state.EligibleProductIDs = append(state.EligibleProductIDs, p.ID)
		}
	}
	return state
}

func findProduct(products []domain.Product, id string) *domain.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
