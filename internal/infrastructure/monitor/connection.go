package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	"github.com/tozikala/backend/repository"
)

// Monitor periodically samples the store so the health endpoint answers
// without touching Bolt on every request.
type Monitor struct {
	store    *kvstore.Store
	records  repository.RecordRepository
	products repository.ProductRepository

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(store *kvstore.Store, records repository.RecordRepository, products repository.ProductRepository, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		records:  records,
		products: products,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh samples the store immediately; the loop calls it on every tick.
func (m *Monitor) Refresh() {
	storeOK, slots := m.checkStore()
	status := Status{
		Store:     storeOK,
		Slots:     slots,
		LastCheck: time.Now(),
	}

	if storeOK {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if records, err := m.records.GetAll(ctx); err == nil {
			status.Records = len(records)
		}
		if products, err := m.products.GetAll(ctx); err == nil {
			status.Products = len(products)
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) checkStore() (bool, int) {
	if m.store == nil {
		return false, 0
	}
	size, err := m.store.Size()
	if err != nil {
		m.logger.Warn("store size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
