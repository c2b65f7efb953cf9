// Package service is the glue between the terminal UI, the local store and
// the hosted backend: cached product lookup, backend-first sale recording
// with an offline fallback, and deferred settings writes.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"lapakpos/terminal/internal/cache"
	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store"
	"lapakpos/terminal/internal/xid"
)

var ErrInvalidSale = errors.New("invalid sale payload")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// SaleBackend is the slice of the server API needed at the point of sale.
type SaleBackend interface {
	PushSale(ctx context.Context, offlineID string, payload domain.SalePayload) (string, error)
}

type Service struct {
	store       store.LocalStore
	backend     SaleBackend
	searchCache cache.SearchCache
	cacheTTL    time.Duration
	outletID    string
	logger      *zap.Logger
}

func New(localStore store.LocalStore, backend SaleBackend, searchCache cache.SearchCache, cacheTTL time.Duration, outletID string, logger *zap.Logger) *Service {
	if searchCache == nil {
		searchCache = cache.NoopSearchCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       localStore,
		backend:     backend,
		searchCache: searchCache,
		cacheTTL:    cacheTTL,
		outletID:    outletID,
		logger:      logger,
	}
}

func (s *Service) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ActiveProducts(ctx, s.outletID)
}

func (s *Service) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.AllProducts(ctx, s.outletID)
}

// SearchProducts consults the optional read-through cache first. Cache
// failures are logged and ignored; the local store answers regardless.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Product{}, nil
	}

	key := "search:" + s.outletID + ":" + strings.ToLower(query)
	if cached, ok, err := s.searchCache.Get(ctx, key); err != nil {
		s.logger.Debug("search cache get", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	products, err := s.store.SearchProducts(ctx, s.outletID, query)
	if err != nil {
		return nil, err
	}

	if err := s.searchCache.Set(ctx, key, products, s.cacheTTL); err != nil {
		s.logger.Debug("search cache set", zap.Error(err))
	}
	return products, nil
}

// RecordSale pushes the sale to the backend when it is reachable; otherwise
// the sale is queued offline and the generated offline id is returned so the
// UI can print a receipt before server confirmation.
func (s *Service) RecordSale(ctx context.Context, payload domain.SalePayload) (domain.SaleResponse, error) {
	if payload.OutletID == "" {
		payload.OutletID = s.outletID
	}
	if payload.PaymentMethod == "" || len(payload.Items) == 0 || payload.TotalCents < 0 {
		return domain.SaleResponse{}, ErrInvalidSale
	}
	for _, item := range payload.Items {
		if item.ProductID == "" || item.Qty < 1 {
			return domain.SaleResponse{}, ErrInvalidSale
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if s.backend != nil {
		serverID, err := s.backend.PushSale(ctx, xid.New("sale"), payload)
		if err == nil {
			return domain.SaleResponse{
				TransactionID: serverID,
				Status:        domain.TxStatusPaid,
				CreatedAt:     now,
			}, nil
		}
		s.logger.Warn("backend unreachable, queueing sale offline", zap.Error(err))
	}

	offlineID, err := s.store.EnqueueOfflineTransaction(ctx, payload)
	if err != nil {
		return domain.SaleResponse{}, err
	}

	return domain.SaleResponse{
		TransactionID: offlineID,
		Status:        domain.TxStatusOffline,
		Offline:       true,
		CreatedAt:     now,
	}, nil
}

func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return s.store.RecentTransactions(ctx, s.outletID, limit)
}

func (s *Service) SearchTransactions(ctx context.Context, query string) ([]domain.Transaction, error) {
	return s.store.SearchTransactions(ctx, s.outletID, query)
}

// QueueStatus reports how much local state is still waiting on the server.
func (s *Service) QueueStatus(ctx context.Context) (domain.QueueStatus, error) {
	offline, err := s.store.OfflineTransactions(ctx)
	if err != nil {
		return domain.QueueStatus{}, err
	}
	items, err := s.store.SyncQueueItems(ctx)
	if err != nil {
		return domain.QueueStatus{}, err
	}
	return domain.QueueStatus{
		OfflineTransactions: len(offline),
		SyncQueueItems:      len(items),
	}, nil
}

func (s *Service) GetSetting(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return s.store.GetSetting(ctx, key)
}

// PutSetting writes the value locally and queues the change for the server.
func (s *Service) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("setting key is required")
	}
	if len(value) == 0 {
		value = json.RawMessage(`null`)
	}
	if err := s.store.PutSetting(ctx, key, value); err != nil {
		return err
	}

	change, err := json.Marshal(struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}{Key: key, Value: value})
	if err != nil {
		return err
	}
	if _, err := s.store.EnqueueSyncItem(ctx, "setting_change", change); err != nil {
		return err
	}
	return nil
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.StaffMember, error) {
	return s.store.ListStaff(ctx, s.outletID)
}
