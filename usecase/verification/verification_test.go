package verification

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/events"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/repository"
	boltRepo "github.com/tozikala/backend/repository/bolt"
)

const validID = "0499370899"

type fixture struct {
	uc       *UseCase
	records  repository.RecordRepository
	products repository.ProductRepository
	bus      *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "verification.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	records := boltRepo.NewRecordRepository(store, nil)
	products := boltRepo.NewProductRepository(store, nil)
	bus := events.NewBus(nil)
	return &fixture{
		uc:       New(records, products, bus, nil),
		records:  records,
		products: products,
		bus:      bus,
	}
}

func TestCheckInvalidID(t *testing.T) {
	f := newFixture(t)

	state, err := f.uc.Check(context.Background(), "1234567890")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInvalidID, state.Status)

	// a retry with a valid id recovers
	state, err = f.uc.Check(context.Background(), validID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusChecked, state.Status)
}

func TestCheckNewPerson(t *testing.T) {
	f := newFixture(t)

	state, err := f.uc.Check(context.Background(), validID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusChecked, state.Status)
	assert.Empty(t, state.FullName)
	assert.Empty(t, state.PriorRecords)
	assert.Empty(t, state.SelectedProductIDs)
	assert.ElementsMatch(t, []string{"p1", "p2"}, state.EligibleProductIDs)
}

func TestCheckPrefillsNameFromFirstRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.records.Append(ctx, []domain.DistributionRecord{
		{ID: "r1", NationalID: validID, ProductID: "p1", ProductName: "A", FullName: "علی محمدی", Timestamp: 1},
		{ID: "r2", NationalID: validID, ProductID: "p2", ProductName: "B", FullName: "ع. محمدی", Timestamp: 2},
	}))

	state, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)
	assert.Equal(t, "علی محمدی", state.FullName)
	assert.Len(t, state.PriorRecords, 2)
	assert.Empty(t, state.EligibleProductIDs)
}

func TestToggleRequiresCheckedSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ToggleProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestToggleIsIdempotentAddRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)

	state, err := f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, state.SelectedProductIDs)

	state, err = f.uc.ToggleProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, state.SelectedProductIDs)

	state, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, state.SelectedProductIDs)
}

func TestToggleRejectsAlreadyReceivedProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.records.Append(ctx, []domain.DistributionRecord{
		{ID: "r1", NationalID: validID, ProductID: "p1", ProductName: "A", FullName: "ن", Timestamp: 1},
	}))

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)

	_, err = f.uc.ToggleProduct(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProductIneligible)

	// any good not yet received stays selectable
	state, err := f.uc.ToggleProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, state.SelectedProductIDs)
}

func TestToggleUnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)

	_, err = f.uc.ToggleProduct(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCommitPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = f.uc.Check(ctx, validID)
	require.NoError(t, err)

	// empty selection
	_, err = f.uc.SetFullName(ctx, "علی")
	require.NoError(t, err)
	_, err = f.uc.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrCommitPreconditions)

	// whitespace-only name
	_, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)
	_, err = f.uc.SetFullName(ctx, "   ")
	require.NoError(t, err)
	_, err = f.uc.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrCommitPreconditions)
}

func TestCommitPersistsBatchAndResets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.products.SaveAll(ctx, []domain.Product{{ID: "p1", Name: "A"}}))

	var notified int
	f.bus.Subscribe(events.TopicRecordsChanged, func(events.Topic) { notified++ })

	before := time.Now().UnixMilli()
	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)
	_, err = f.uc.SetFullName(ctx, "  علی محمدی  ")
	require.NoError(t, err)
	_, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)

	batch, err := f.uc.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	stored, err := f.records.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	rec := stored[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, validID, rec.NationalID)
	assert.Equal(t, "p1", rec.ProductID)
	assert.Equal(t, "A", rec.ProductName)
	assert.Equal(t, "علی محمدی", rec.FullName)
	assert.GreaterOrEqual(t, rec.Timestamp, before)

	state := f.uc.State(ctx)
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Empty(t, state.NationalID)
	assert.Empty(t, state.SelectedProductIDs)
	assert.Equal(t, 1, notified)
}

func TestCommitSnapshotsDeletedProductName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)
	_, err = f.uc.SetFullName(ctx, "علی")
	require.NoError(t, err)
	_, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)

	// the product disappears between selection and commit
	require.NoError(t, f.products.Delete(ctx, "p1"))

	batch, err := f.uc.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, domain.UnknownProductName, batch[0].ProductName)
}

func TestCancelDiscardsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)
	_, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)

	state := f.uc.Cancel(ctx)
	assert.Equal(t, domain.StatusIdle, state.Status)

	stored, err := f.records.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCommitBatchSharesTimestamp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fixed := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	f.uc.now = func() time.Time { return fixed }

	_, err := f.uc.Check(ctx, validID)
	require.NoError(t, err)
	_, err = f.uc.SetFullName(ctx, "علی")
	require.NoError(t, err)
	_, err = f.uc.ToggleProduct(ctx, "p1")
	require.NoError(t, err)
	_, err = f.uc.ToggleProduct(ctx, "p2")
	require.NoError(t, err)

	batch, err := f.uc.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, fixed.UnixMilli(), batch[0].Timestamp)
	assert.Equal(t, fixed.UnixMilli(), batch[1].Timestamp)
	assert.NotEqual(t, batch[0].ID, batch[1].ID)
}
