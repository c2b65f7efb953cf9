// Package store defines the terminal's local persistence contract: a
// queryable outlet-scoped cache of catalog and transaction data, a holding
// queue for sales created while the server is unreachable, a generic deferred
// write queue and a small settings table.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"lapakpos/terminal/internal/domain"
)

var (
	// ErrStorageUnavailable is returned when the underlying engine cannot be
	// opened. The store is unusable for the session until a later open succeeds.
	ErrStorageUnavailable = errors.New("local storage unavailable")
	// ErrNotFound is returned by lookups that target a missing key. Removals
	// of missing keys are plain no-ops and never return it.
	ErrNotFound = errors.New("not found")
)

// SearchCap bounds the number of token-prefix matches collected before
// outlet/active filtering. A true match past the cap is silently dropped;
// accepted precision trade-off for a typeahead, it keeps worst-case scan
// cost independent of catalog size.
const SearchCap = 50

// DefaultRecentLimit is used when RecentTransactions gets a non-positive limit.
const DefaultRecentLimit = 200

// LocalStore is the device-local durable store. Every call may fail with a
// storage-layer error the caller must treat as non-fatal and retryable; no
// method talks to the network.
type LocalStore interface {
	// StoreProducts bulk-upserts catalog records keyed by id, re-deriving
	// name tokens and stamping the sync time on every write.
	StoreProducts(ctx context.Context, products []domain.Product) error
	// ReplaceProductsForOutlet atomically swaps the full catalog of one
	// outlet: delete-then-insert as a single transactional unit.
	ReplaceProductsForOutlet(ctx context.Context, outletID string, products []domain.Product) error
	// RemoveProduct deletes one product by id; missing ids are a no-op.
	RemoveProduct(ctx context.Context, id string) error
	ActiveProducts(ctx context.Context, outletID string) ([]domain.Product, error)
	AllProducts(ctx context.Context, outletID string) ([]domain.Product, error)
	// SearchProducts resolves in strict priority order: exact barcode, exact
	// SKU, then token-prefix capped at SearchCap before outlet/active filtering.
	SearchProducts(ctx context.Context, outletID string, query string) ([]domain.Product, error)

	StoreTransactions(ctx context.Context, transactions []domain.Transaction) error
	RemoveTransaction(ctx context.Context, id string) error
	// RecentTransactions returns up to limit records for the outlet ordered
	// newest-first. Non-positive limits fall back to DefaultRecentLimit.
	RecentTransactions(ctx context.Context, outletID string, limit int) ([]domain.Transaction, error)
	SearchTransactions(ctx context.Context, outletID string, query string) ([]domain.Transaction, error)

	// EnqueueOfflineTransaction appends a locally created sale and returns
	// its generated offline id so the caller can correlate before the server
	// acknowledges.
	EnqueueOfflineTransaction(ctx context.Context, payload domain.SalePayload) (string, error)
	OfflineTransactions(ctx context.Context) ([]domain.OfflineTransaction, error)
	RemoveOfflineTransaction(ctx context.Context, offlineID string) error
	ClearOfflineTransactions(ctx context.Context) error

	EnqueueSyncItem(ctx context.Context, itemType string, payload json.RawMessage) (int64, error)
	// SyncQueueItems returns all queued items oldest-first so drains run FIFO.
	SyncQueueItems(ctx context.Context) ([]domain.SyncQueueItem, error)
	// MarkSyncItemProcessing increments the attempt counter. The store only
	// persists state; retry policy belongs to the sync collaborator.
	MarkSyncItemProcessing(ctx context.Context, id int64) error
	MarkSyncItemFailed(ctx context.Context, id int64) error
	RemoveSyncItem(ctx context.Context, id int64) error
	ClearSyncQueue(ctx context.Context) error

	PutSetting(ctx context.Context, key string, value json.RawMessage) error
	// GetSetting reports ok=false when the key is absent; absence is not an error.
	GetSetting(ctx context.Context, key string) (json.RawMessage, bool, error)

	StoreStaff(ctx context.Context, staff []domain.StaffMember) error
	ListStaff(ctx context.Context, outletID string) ([]domain.StaffMember, error)

	Close() error
}
