// Package memory implements store.LocalStore entirely in process memory.
// It backs unit tests and the diskless dev mode; its behavior mirrors the
// sqlite store, including search priority and the pre-filter result cap.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store"
	"lapakpos/terminal/internal/token"
	"lapakpos/terminal/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	transactions map[string]domain.Transaction
	offline      []domain.OfflineTransaction
	syncQueue    []domain.SyncQueueItem
	nextSyncID   int64
	settings     map[string]domain.Setting
	staff        map[string]domain.StaffMember
}

func New() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		transactions: make(map[string]domain.Transaction),
		settings:     make(map[string]domain.Setting),
		staff:        make(map[string]domain.StaffMember),
		nextSyncID:   1,
	}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) StoreProducts(_ context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, product := range products {
		s.products[product.ID] = withProductTokens(product)
	}
	return nil
}

func (s *Store) ReplaceProductsForOutlet(_ context.Context, outletID string, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, product := range s.products {
		if product.OutletID == outletID {
			delete(s.products, id)
		}
	}
	for _, product := range products {
		product.OutletID = outletID
		s.products[product.ID] = withProductTokens(product)
	}
	return nil
}

func withProductTokens(product domain.Product) domain.Product {
	product.NameTokens = token.Tokenize(product.Name)
	product.SyncedAt = time.Now().UTC()
	return product
}

func (s *Store) RemoveProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

func (s *Store) ActiveProducts(_ context.Context, outletID string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if product.OutletID == outletID && product.Active {
			products = append(products, product)
		}
	}
	sortProductsByName(products)
	return products, nil
}

func (s *Store) AllProducts(_ context.Context, outletID string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if product.OutletID == outletID {
			products = append(products, product)
		}
	}
	sortProductsByName(products)
	return products, nil
}

func (s *Store) SearchProducts(_ context.Context, outletID string, query string) ([]domain.Product, error) {
	q := token.Normalize(query)
	if q == "" {
		return []domain.Product{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	trimmed := strings.TrimSpace(query)
	for _, product := range s.products {
		if product.Barcode != "" && product.Barcode == trimmed {
			return []domain.Product{product}, nil
		}
	}
	for _, product := range s.products {
		if product.SKU != "" && product.SKU == trimmed {
			return []domain.Product{product}, nil
		}
	}

	// Token matches are capped before the outlet/active filter, mirroring the
	// bounded index scan of the durable store.
	capped := make([]domain.Product, 0, store.SearchCap)
	for _, product := range s.products {
		if len(capped) >= store.SearchCap {
			break
		}
		if token.HasPrefixMatch(product.NameTokens, q) {
			capped = append(capped, product)
		}
	}

	matches := make([]domain.Product, 0, len(capped))
	for _, product := range capped {
		if product.OutletID == outletID && product.Active {
			matches = append(matches, product)
		}
	}
	sortProductsByName(matches)
	return matches, nil
}

func sortProductsByName(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name == products[j].Name {
			return products[i].ID < products[j].ID
		}
		return products[i].Name < products[j].Name
	})
}

func (s *Store) StoreTransactions(_ context.Context, transactions []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range transactions {
		record.SearchTokens = token.Tokenize(record.Number, record.CustomerName, record.PaymentMethod)
		record.SyncedAt = time.Now().UTC()
		s.transactions[record.ID] = record
	}
	return nil
}

func (s *Store) RemoveTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transactions, id)
	return nil
}

func (s *Store) RecentTransactions(_ context.Context, outletID string, limit int) ([]domain.Transaction, error) {
	if limit < 1 {
		limit = store.DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.Transaction, 0, len(s.transactions))
	for _, record := range s.transactions {
		if record.OutletID == outletID {
			records = append(records, record)
		}
	}
	sortTransactionsByDateDesc(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) SearchTransactions(_ context.Context, outletID string, query string) ([]domain.Transaction, error) {
	q := token.Normalize(query)
	if q == "" {
		return []domain.Transaction{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	trimmed := strings.TrimSpace(query)
	for _, record := range s.transactions {
		if record.OutletID == outletID && record.Number == trimmed {
			return []domain.Transaction{record}, nil
		}
	}

	capped := make([]domain.Transaction, 0, store.SearchCap)
	for _, record := range s.transactions {
		if len(capped) >= store.SearchCap {
			break
		}
		if token.HasPrefixMatch(record.SearchTokens, q) {
			capped = append(capped, record)
		}
	}

	matches := make([]domain.Transaction, 0, len(capped))
	for _, record := range capped {
		if record.OutletID == outletID {
			matches = append(matches, record)
		}
	}
	sortTransactionsByDateDesc(matches)
	return matches, nil
}

func sortTransactionsByDateDesc(records []domain.Transaction) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date) {
			return records[i].ID > records[j].ID
		}
		return records[i].Date.After(records[j].Date)
	})
}

func (s *Store) EnqueueOfflineTransaction(_ context.Context, payload domain.SalePayload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.OfflineTransaction{
		OfflineID: xid.New("offline"),
		Payload:   payload,
		Status:    domain.TxStatusOffline,
		CreatedAt: time.Now().UTC(),
	}
	s.offline = append(s.offline, record)
	return record.OfflineID, nil
}

func (s *Store) OfflineTransactions(_ context.Context) ([]domain.OfflineTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queued := make([]domain.OfflineTransaction, len(s.offline))
	copy(queued, s.offline)
	return queued, nil
}

func (s *Store) RemoveOfflineTransaction(_ context.Context, offlineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.offline[:0]
	for _, record := range s.offline {
		if record.OfflineID != offlineID {
			kept = append(kept, record)
		}
	}
	s.offline = kept
	return nil
}

func (s *Store) ClearOfflineTransactions(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offline = nil
	return nil
}

func (s *Store) EnqueueSyncItem(_ context.Context, itemType string, payload json.RawMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	item := domain.SyncQueueItem{
		ID:        s.nextSyncID,
		Type:      itemType,
		Payload:   payload,
		Status:    domain.SyncStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.nextSyncID++
	s.syncQueue = append(s.syncQueue, item)
	return item.ID, nil
}

func (s *Store) SyncQueueItems(_ context.Context) ([]domain.SyncQueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.SyncQueueItem, len(s.syncQueue))
	copy(items, s.syncQueue)
	return items, nil
}

func (s *Store) MarkSyncItemProcessing(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.syncQueue {
		if s.syncQueue[i].ID == id {
			s.syncQueue[i].Status = domain.SyncStatusProcessing
			s.syncQueue[i].Attempts++
		}
	}
	return nil
}

func (s *Store) MarkSyncItemFailed(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.syncQueue {
		if s.syncQueue[i].ID == id {
			s.syncQueue[i].Status = domain.SyncStatusFailed
		}
	}
	return nil
}

func (s *Store) RemoveSyncItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.syncQueue[:0]
	for _, item := range s.syncQueue {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.syncQueue = kept
	return nil
}

func (s *Store) ClearSyncQueue(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncQueue = nil
	return nil
}

func (s *Store) PutSetting(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(value) == 0 {
		value = json.RawMessage(`null`)
	}
	s.settings[key] = domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) GetSetting(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, ok := s.settings[key]
	if !ok {
		return nil, false, nil
	}
	return setting.Value, true, nil
}

func (s *Store) StoreStaff(_ context.Context, staff []domain.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, member := range staff {
		member.SyncedAt = now
		s.staff[member.ID] = member
	}
	return nil
}

func (s *Store) ListStaff(_ context.Context, outletID string) ([]domain.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	staff := make([]domain.StaffMember, 0, len(s.staff))
	for _, member := range s.staff {
		if member.OutletID == outletID {
			staff = append(staff, member)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff, nil
}
