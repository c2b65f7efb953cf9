package service

import (
	"context"
	"errors"
	"testing"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store/memory"
)

type fakeSaleBackend struct {
	online bool
	pushed int
}

func (f *fakeSaleBackend) PushSale(_ context.Context, _ string, _ domain.SalePayload) (string, error) {
	if !f.online {
		return "", errors.New("connection refused")
	}
	f.pushed++
	return "srv-1", nil
}

func newTestService(online bool) (*Service, *memory.Store, *fakeSaleBackend) {
	local := memory.New()
	backend := &fakeSaleBackend{online: online}
	svc := New(local, backend, nil, 0, "store-1", nil)
	return svc, local, backend
}

func validSale() domain.SalePayload {
	return domain.SalePayload{
		TerminalID:    "term-1",
		PaymentMethod: "cash",
		TotalCents:    7500,
		Items:         []domain.SaleItem{{ProductID: "p1", Qty: 1, UnitPriceCents: 7500}},
	}
}

func TestRecordSaleOnlinePushesToBackend(t *testing.T) {
	svc, local, backend := newTestService(true)

	resp, err := svc.RecordSale(context.Background(), validSale())
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if resp.Offline || resp.TransactionID != "srv-1" {
		t.Fatalf("expected online sale with server id, got %+v", resp)
	}
	if backend.pushed != 1 {
		t.Fatalf("expected one push, got %d", backend.pushed)
	}
	queued, _ := local.OfflineTransactions(context.Background())
	if len(queued) != 0 {
		t.Fatalf("expected nothing queued when online, got %d", len(queued))
	}
}

func TestRecordSaleOfflineQueuesLocally(t *testing.T) {
	svc, local, _ := newTestService(false)

	resp, err := svc.RecordSale(context.Background(), validSale())
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if !resp.Offline || resp.Status != domain.TxStatusOffline {
		t.Fatalf("expected offline response, got %+v", resp)
	}

	queued, _ := local.OfflineTransactions(context.Background())
	if len(queued) != 1 || queued[0].OfflineID != resp.TransactionID {
		t.Fatalf("expected queued sale with returned id, got %+v", queued)
	}
	if queued[0].Payload.OutletID != "store-1" {
		t.Fatalf("expected default outlet applied, got %s", queued[0].Payload.OutletID)
	}
}

func TestRecordSaleRejectsInvalidPayload(t *testing.T) {
	svc, _, _ := newTestService(true)

	cases := []domain.SalePayload{
		{},
		{PaymentMethod: "cash"},
		{PaymentMethod: "cash", Items: []domain.SaleItem{{ProductID: "p1", Qty: 0}}},
		{PaymentMethod: "cash", TotalCents: -1, Items: []domain.SaleItem{{ProductID: "p1", Qty: 1}}},
	}
	for i, payload := range cases {
		if _, err := svc.RecordSale(context.Background(), payload); !errors.Is(err, ErrInvalidSale) {
			t.Fatalf("case %d: expected ErrInvalidSale, got %v", i, err)
		}
	}
}

func TestSearchProductsScopedToOutlet(t *testing.T) {
	svc, local, _ := newTestService(true)
	ctx := context.Background()

	err := local.StoreProducts(ctx, []domain.Product{
		{ID: "p1", OutletID: "store-1", Name: "Coca Cola", Active: true},
		{ID: "p2", OutletID: "store-2", Name: "Coca Cola", Active: true},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := svc.SearchProducts(ctx, "coc")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "p1" {
		t.Fatalf("expected only store-1 match, got %+v", found)
	}

	empty, err := svc.SearchProducts(ctx, "   ")
	if err != nil {
		t.Fatalf("blank search: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result for blank query")
	}
}

func TestPutSettingQueuesServerWrite(t *testing.T) {
	svc, local, _ := newTestService(true)
	ctx := context.Background()

	if err := svc.PutSetting(ctx, "tax_rate", []byte(`11`)); err != nil {
		t.Fatalf("put setting: %v", err)
	}

	value, ok, err := svc.GetSetting(ctx, "tax_rate")
	if err != nil || !ok || string(value) != `11` {
		t.Fatalf("expected local write, got ok=%v value=%s err=%v", ok, value, err)
	}

	items, _ := local.SyncQueueItems(ctx)
	if len(items) != 1 || items[0].Type != "setting_change" {
		t.Fatalf("expected one queued setting_change, got %+v", items)
	}

	status, err := svc.QueueStatus(ctx)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if status.SyncQueueItems != 1 || status.OfflineTransactions != 0 {
		t.Fatalf("unexpected queue status %+v", status)
	}
}
