package domain

import (
	"encoding/json"
	"time"
)

// Product is a locally cached catalog record mirrored from the server.
// NameTokens is derived from Name on every write and is never edited on its own.
type Product struct {
	ID         string    `json:"id"`
	OutletID   string    `json:"outlet_id"`
	Name       string    `json:"name"`
	Barcode    string    `json:"barcode"`
	SKU        string    `json:"sku"`
	Category   string    `json:"category"`
	Active     bool      `json:"is_active"`
	NameTokens []string  `json:"name_tokens,omitempty"`
	SyncedAt   time.Time `json:"synced_at,omitempty"`
}

// Transaction is a synced sale record. Immutable locally except for
// replacement via bulk upsert from the server.
type Transaction struct {
	ID            string    `json:"id"`
	OutletID      string    `json:"outlet_id"`
	Number        string    `json:"transaction_number"`
	Date          time.Time `json:"transaction_date"`
	CustomerName  string    `json:"customer_name"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	SearchTokens  []string  `json:"search_tokens,omitempty"`
	SyncedAt      time.Time `json:"synced_at,omitempty"`
}

// SaleItem is one line of a locally created sale.
type SaleItem struct {
	ProductID      string `json:"product_id"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// SalePayload is the full transaction-creation payload the terminal would
// send to the server, held locally while the sale is unconfirmed.
type SalePayload struct {
	OutletID          string     `json:"outlet_id"`
	TerminalID        string     `json:"terminal_id"`
	CustomerName      string     `json:"customer_name,omitempty"`
	PaymentMethod     string     `json:"payment_method"`
	CashReceivedCents int64      `json:"cash_received_cents"`
	DiscountCents     int64      `json:"discount_cents"`
	TotalCents        int64      `json:"total_cents"`
	Items             []SaleItem `json:"items"`
}

// OfflineTransaction wraps a SalePayload queued while the server is
// unreachable or has not acknowledged the sale yet.
type OfflineTransaction struct {
	OfflineID string      `json:"offline_id"`
	Payload   SalePayload `json:"payload"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// SyncQueueItem is a deferred server write that is not a POS sale.
type SyncQueueItem struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}

// Setting is a key/value pair with last-write-wins semantics.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StaffMember is a locally cached staff credential record, synced from the
// server so PIN login keeps working while the terminal is offline.
type StaffMember struct {
	ID       string    `json:"id"`
	OutletID string    `json:"outlet_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	PINHash  string    `json:"-"`
	Active   bool      `json:"active"`
	SyncedAt time.Time `json:"synced_at,omitempty"`
}

type LoginRequest struct {
	StaffID string `json:"staff_id"`
	PIN     string `json:"pin"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	StaffName   string `json:"staff_name"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor identifies the staff member bound to a request context.
type Actor struct {
	StaffID string
	Name    string
	Role    string
}

type SaleResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Offline       bool   `json:"offline"`
	CreatedAt     string `json:"created_at"`
}

type QueueStatus struct {
	OfflineTransactions int `json:"offline_transactions"`
	SyncQueueItems      int `json:"sync_queue_items"`
}

const (
	TxStatusOffline = "offline"
	TxStatusPaid    = "paid"
	TxStatusVoided  = "voided"
)

const (
	SyncStatusPending    = "pending"
	SyncStatusProcessing = "processing"
	SyncStatusFailed     = "failed"
)
