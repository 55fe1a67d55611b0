package stats

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/repository"
	boltRepo "github.com/tozikala/backend/repository/bolt"
)

func newRecords(t *testing.T) repository.RecordRepository {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return boltRepo.NewRecordRepository(store, nil)
}

func TestSnapshotEmpty(t *testing.T) {
	uc := New(newRecords(t), nil)

	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.TotalDistributed)
	assert.Equal(t, 0, snap.DistributedToday)
	assert.Zero(t, snap.LastActivity)
	assert.Empty(t, snap.PerProduct)
}

func TestSnapshotAggregates(t *testing.T) {
	ctx := context.Background()
	records := newRecords(t)
	uc := New(records, nil)

	fixedNow := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)
	uc.now = func() time.Time { return fixedNow }

	today := fixedNow.Add(-2 * time.Hour).UnixMilli()
	yesterday := fixedNow.AddDate(0, 0, -1).UnixMilli()
	latest := fixedNow.Add(-1 * time.Hour).UnixMilli()

	require.NoError(t, records.Append(ctx, []domain.DistributionRecord{
		{ID: "r1", NationalID: "0000000000", ProductID: "p1", ProductName: "آرد", FullName: "ن", Timestamp: yesterday},
		{ID: "r2", NationalID: "0499370899", ProductID: "p1", ProductName: "آرد", FullName: "ن", Timestamp: today},
		{ID: "r3", NationalID: "0499370899", ProductID: "p2", ProductName: "برنج", FullName: "ن", Timestamp: latest},
	}))

	snap, err := uc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalDistributed)
	assert.Equal(t, 2, snap.DistributedToday)
	assert.Equal(t, latest, snap.LastActivity)
	assert.Equal(t, map[string]int{"آرد": 2, "برنج": 1}, snap.PerProduct)
}

func TestHistoryNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	records := newRecords(t)
	uc := New(records, nil)

	batch := make([]domain.DistributionRecord, 0, 20)
	for i := 0; i < 20; i++ {
		batch = append(batch, domain.DistributionRecord{
			ID:          fmt.Sprintf("r%d", i),
			NationalID:  fmt.Sprintf("%010d", i),
			ProductID:   "p1",
			ProductName: "آرد",
			FullName:    "ن",
			Timestamp:   int64(i),
		})
	}
	require.NoError(t, records.Append(ctx, batch))

	history, err := uc.History(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, history, 15)
	assert.Equal(t, "r19", history[0].ID)
	assert.Equal(t, "r5", history[14].ID)

	history, err = uc.History(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "r19", history[0].ID)
}

func TestHistoryFiltersByNationalID(t *testing.T) {
	ctx := context.Background()
	records := newRecords(t)
	uc := New(records, nil)

	require.NoError(t, records.Append(ctx, []domain.DistributionRecord{
		{ID: "r1", NationalID: "0499370899", ProductID: "p1", ProductName: "آرد", FullName: "ن", Timestamp: 1},
		{ID: "r2", NationalID: "0000000000", ProductID: "p1", ProductName: "آرد", FullName: "ن", Timestamp: 2},
		{ID: "r3", NationalID: "0499370899", ProductID: "p2", ProductName: "برنج", FullName: "ن", Timestamp: 3},
	}))

	history, err := uc.History(ctx, "0499370899", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r3", history[0].ID)
	assert.Equal(t, "r1", history[1].ID)
}
