// Package sync drains the terminal's offline queues against the hosted
// backend and pulls fresh catalog, transaction and staff snapshots into the
// local store. The store persists state; this package owns retry policy.
package sync

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store"
)

// Backend is the subset of the server API the syncer needs.
type Backend interface {
	Ping(ctx context.Context) error
	FetchProducts(ctx context.Context, outletID string) ([]domain.Product, error)
	FetchTransactions(ctx context.Context, outletID string, limit int) ([]domain.Transaction, error)
	FetchStaff(ctx context.Context, outletID string) ([]domain.StaffMember, error)
	PushSale(ctx context.Context, offlineID string, payload domain.SalePayload) (string, error)
	PushSyncItem(ctx context.Context, itemType string, payload json.RawMessage) error
}

type Syncer struct {
	store       store.LocalStore
	backend     Backend
	outletID    string
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

func New(localStore store.LocalStore, backend Backend, outletID string, interval time.Duration, logger *zap.Logger) *Syncer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		store:       localStore,
		backend:     backend,
		outletID:    outletID,
		interval:    interval,
		maxAttempts: 5,
		logger:      logger,
	}
}

// Start runs sync cycles until ctx is cancelled. A failed cycle is logged
// and retried on the next tick; it never takes the process down.
func (s *Syncer) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.Cycle(ctx); err != nil {
			s.logger.Warn("sync cycle skipped", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Cycle runs one full sync pass: push local writes first so the subsequent
// pulls reflect them, then refresh the local caches.
func (s *Syncer) Cycle(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return err
	}

	s.drainOfflineTransactions(ctx)
	s.drainSyncQueue(ctx)
	s.pullCatalog(ctx)
	s.pullTransactions(ctx)
	s.pullStaff(ctx)
	return nil
}

func (s *Syncer) drainOfflineTransactions(ctx context.Context) {
	queued, err := s.store.OfflineTransactions(ctx)
	if err != nil {
		s.logger.Error("list offline transactions", zap.Error(err))
		return
	}

	for _, record := range queued {
		serverID, err := s.backend.PushSale(ctx, record.OfflineID, record.Payload)
		if err != nil {
			// Left queued; retried next cycle.
			s.logger.Warn("push offline sale", zap.String("offline_id", record.OfflineID), zap.Error(err))
			continue
		}
		if err := s.store.RemoveOfflineTransaction(ctx, record.OfflineID); err != nil {
			s.logger.Error("remove acknowledged sale", zap.String("offline_id", record.OfflineID), zap.Error(err))
			continue
		}
		s.logger.Info("offline sale synced",
			zap.String("offline_id", record.OfflineID),
			zap.String("transaction_id", serverID))
	}
}

func (s *Syncer) drainSyncQueue(ctx context.Context) {
	items, err := s.store.SyncQueueItems(ctx)
	if err != nil {
		s.logger.Error("list sync queue", zap.Error(err))
		return
	}

	for _, item := range items {
		if item.Attempts >= s.maxAttempts {
			// Exhausted items stay in the queue marked failed for operator review.
			continue
		}
		if err := s.store.MarkSyncItemProcessing(ctx, item.ID); err != nil {
			s.logger.Error("mark sync item", zap.Int64("id", item.ID), zap.Error(err))
			continue
		}
		if err := s.backend.PushSyncItem(ctx, item.Type, item.Payload); err != nil {
			s.logger.Warn("push sync item", zap.Int64("id", item.ID), zap.String("type", item.Type), zap.Error(err))
			if err := s.store.MarkSyncItemFailed(ctx, item.ID); err != nil {
				s.logger.Error("mark sync item failed", zap.Int64("id", item.ID), zap.Error(err))
			}
			continue
		}
		if err := s.store.RemoveSyncItem(ctx, item.ID); err != nil {
			s.logger.Error("remove sync item", zap.Int64("id", item.ID), zap.Error(err))
		}
	}
}

func (s *Syncer) pullCatalog(ctx context.Context) {
	products, err := s.backend.FetchProducts(ctx, s.outletID)
	if err != nil {
		s.logger.Warn("pull catalog", zap.Error(err))
		return
	}
	// Full snapshot replace so no stale product survives the resync.
	if err := s.store.ReplaceProductsForOutlet(ctx, s.outletID, products); err != nil {
		s.logger.Error("replace catalog", zap.Error(err))
		return
	}
	s.logger.Debug("catalog refreshed", zap.Int("products", len(products)))
}

func (s *Syncer) pullTransactions(ctx context.Context) {
	transactions, err := s.backend.FetchTransactions(ctx, s.outletID, store.DefaultRecentLimit)
	if err != nil {
		s.logger.Warn("pull transactions", zap.Error(err))
		return
	}
	if err := s.store.StoreTransactions(ctx, transactions); err != nil {
		s.logger.Error("store transactions", zap.Error(err))
		return
	}
	s.logger.Debug("transaction history refreshed", zap.Int("transactions", len(transactions)))
}

func (s *Syncer) pullStaff(ctx context.Context) {
	staff, err := s.backend.FetchStaff(ctx, s.outletID)
	if err != nil {
		s.logger.Warn("pull staff", zap.Error(err))
		return
	}
	if err := s.store.StoreStaff(ctx, staff); err != nil {
		s.logger.Error("store staff", zap.Error(err))
	}
}
