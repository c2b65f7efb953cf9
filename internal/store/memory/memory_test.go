package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store"
)

func TestReplaceProductsForOutlet(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.StoreProducts(ctx, []domain.Product{
		{ID: "p1", OutletID: "store-1", Name: "Old", Active: true},
		{ID: "p2", OutletID: "store-2", Name: "Keep", Active: true},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	err = s.ReplaceProductsForOutlet(ctx, "store-1", []domain.Product{
		{ID: "p3", Name: "New", Active: true},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	listed, err := s.AllProducts(ctx, "store-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "p3" {
		t.Fatalf("expected [p3], got %+v", listed)
	}

	other, _ := s.AllProducts(ctx, "store-2")
	if len(other) != 1 || other[0].ID != "p2" {
		t.Fatalf("expected other outlet untouched, got %+v", other)
	}
}

func TestSearchPriorityOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.StoreProducts(ctx, []domain.Product{
		{ID: "p1", OutletID: "store-1", Name: "Coca Cola", Barcode: "123", SKU: "SKU1", Active: true},
		{ID: "p2", OutletID: "store-1", Name: "123 Crackers", Barcode: "999", Active: true},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	byBarcode, err := s.SearchProducts(ctx, "store-1", "123")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byBarcode) != 1 || byBarcode[0].ID != "p1" {
		t.Fatalf("expected barcode short-circuit [p1], got %+v", byBarcode)
	}

	byToken, err := s.SearchProducts(ctx, "store-1", "coc")
	if err != nil {
		t.Fatalf("search token: %v", err)
	}
	if len(byToken) != 1 || byToken[0].ID != "p1" {
		t.Fatalf("expected token match [p1], got %+v", byToken)
	}

	empty, err := s.SearchProducts(ctx, "store-1", "zzz")
	if err != nil {
		t.Fatalf("search empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no match, got %+v", empty)
	}
}

func TestOfflineQueueAndSyncQueue(t *testing.T) {
	s := New()
	ctx := context.Background()

	idX, err := s.EnqueueOfflineTransaction(ctx, domain.SalePayload{OutletID: "store-1"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	idY, _ := s.EnqueueOfflineTransaction(ctx, domain.SalePayload{OutletID: "store-1"})
	if idX == idY {
		t.Fatalf("expected distinct ids")
	}

	if err := s.RemoveOfflineTransaction(ctx, idX); err != nil {
		t.Fatalf("remove: %v", err)
	}
	queued, _ := s.OfflineTransactions(ctx)
	if len(queued) != 1 || queued[0].OfflineID != idY {
		t.Fatalf("expected only Y, got %+v", queued)
	}

	itemID, err := s.EnqueueSyncItem(ctx, "setting_change", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("enqueue sync item: %v", err)
	}
	_ = s.MarkSyncItemProcessing(ctx, itemID)
	_ = s.MarkSyncItemProcessing(ctx, itemID)
	items, _ := s.SyncQueueItems(ctx)
	if len(items) != 1 || items[0].Attempts != 2 {
		t.Fatalf("expected attempts=2, got %+v", items)
	}
}

func TestRecentTransactionsLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	records := make([]domain.Transaction, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, domain.Transaction{
			ID:       string(rune('a' + i)),
			OutletID: "store-1",
			Number:   "TRX",
			Date:     base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := s.StoreTransactions(ctx, records); err != nil {
		t.Fatalf("store: %v", err)
	}

	recent, err := s.RecentTransactions(ctx, "store-1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	if !recent[0].Date.After(recent[1].Date) {
		t.Fatalf("expected newest-first ordering")
	}

	fallback, _ := s.RecentTransactions(ctx, "store-1", 0)
	if len(fallback) != 5 {
		t.Fatalf("expected default limit %d to cover all 5, got %d", store.DefaultRecentLimit, len(fallback))
	}
}

func TestSettings(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.PutSetting(ctx, "tax_rate", json.RawMessage(`11`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	value, ok, err := s.GetSetting(ctx, "tax_rate")
	if err != nil || !ok || string(value) != `11` {
		t.Fatalf("expected 11, got ok=%v value=%s err=%v", ok, value, err)
	}

	_, ok, err = s.GetSetting(ctx, "absent")
	if err != nil || ok {
		t.Fatalf("expected absent key without error, got ok=%v err=%v", ok, err)
	}
}
