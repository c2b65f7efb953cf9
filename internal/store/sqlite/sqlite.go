package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store"
	"lapakpos/terminal/internal/token"
	"lapakpos/terminal/internal/xid"
)

// Store is the durable on-device implementation of store.LocalStore, backed
// by an embedded SQLite database file.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id         TEXT PRIMARY KEY,
	outlet_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	barcode    TEXT NOT NULL DEFAULT '',
	sku        TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1,
	synced_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_outlet ON products(outlet_id);
CREATE INDEX IF NOT EXISTS idx_products_outlet_active ON products(outlet_id, active);
CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode);
CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS product_tokens (
	product_id TEXT NOT NULL,
	tok        TEXT NOT NULL,
	PRIMARY KEY (product_id, tok)
);
CREATE INDEX IF NOT EXISTS idx_product_tokens_tok ON product_tokens(tok);

CREATE TABLE IF NOT EXISTS transactions (
	id             TEXT PRIMARY KEY,
	outlet_id      TEXT NOT NULL,
	number         TEXT NOT NULL,
	tx_date        INTEGER NOT NULL,
	customer_name  TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	synced_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_outlet ON transactions(outlet_id);
CREATE INDEX IF NOT EXISTS idx_transactions_outlet_date ON transactions(outlet_id, tx_date);
CREATE INDEX IF NOT EXISTS idx_transactions_number ON transactions(number);
CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status);
CREATE INDEX IF NOT EXISTS idx_transactions_payment ON transactions(payment_method);

CREATE TABLE IF NOT EXISTS transaction_tokens (
	transaction_id TEXT NOT NULL,
	tok            TEXT NOT NULL,
	PRIMARY KEY (transaction_id, tok)
);
CREATE INDEX IF NOT EXISTS idx_transaction_tokens_tok ON transaction_tokens(tok);

CREATE TABLE IF NOT EXISTS offline_transactions (
	offline_id TEXT PRIMARY KEY,
	outlet_id  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offline_outlet ON offline_transactions(outlet_id);
CREATE INDEX IF NOT EXISTS idx_offline_created ON offline_transactions(created_at);
CREATE INDEX IF NOT EXISTS idx_offline_status ON offline_transactions(status);

CREATE TABLE IF NOT EXISTS sync_queue (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	item_type  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	status     TEXT NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_queue_type ON sync_queue(item_type);
CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status);
CREATE INDEX IF NOT EXISTS idx_sync_queue_created ON sync_queue(created_at);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS staff (
	id        TEXT PRIMARY KEY,
	outlet_id TEXT NOT NULL,
	name      TEXT NOT NULL,
	role      TEXT NOT NULL DEFAULT 'cashier',
	pin_hash  TEXT NOT NULL DEFAULT '',
	active    INTEGER NOT NULL DEFAULT 1,
	synced_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_staff_outlet ON staff(outlet_id);
`

// Open opens (or creates) the terminal database at path and prepares the
// schema. An open failure leaves the store unusable for the session.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: storage path is required", store.ErrStorageUnavailable)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	// The embedded engine serializes writers; a single connection avoids
	// SQLITE_BUSY between overlapping store calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: prepare schema: %v", store.ErrStorageUnavailable, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// escapeLike escapes LIKE wildcards in a user query so a literal % or _
// scanned from a barcode field cannot widen the prefix match.
func escapeLike(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(query)
}

func (s *Store) StoreProducts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, product := range products {
		if err := upsertProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ReplaceProductsForOutlet(ctx context.Context, outletID string, products []domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM product_tokens
		WHERE product_id IN (SELECT id FROM products WHERE outlet_id = ?)
	`, outletID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE outlet_id = ?`, outletID); err != nil {
		return err
	}

	for _, product := range products {
		product.OutletID = outletID
		if err := upsertProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// upsertProduct writes one catalog record and rebuilds its token rows in the
// caller's transaction, so a record and its token index never diverge.
func upsertProduct(ctx context.Context, tx *sql.Tx, product domain.Product) error {
	product.NameTokens = token.Tokenize(product.Name)
	product.SyncedAt = time.Now().UTC()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, outlet_id, name, barcode, sku, category, active, synced_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			outlet_id = excluded.outlet_id,
			name      = excluded.name,
			barcode   = excluded.barcode,
			sku       = excluded.sku,
			category  = excluded.category,
			active    = excluded.active,
			synced_at = excluded.synced_at
	`, product.ID, product.OutletID, product.Name, product.Barcode, product.SKU,
		product.Category, boolToInt(product.Active), toMillis(product.SyncedAt))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_tokens WHERE product_id = ?`, product.ID); err != nil {
		return err
	}
	for _, tok := range product.NameTokens {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO product_tokens (product_id, tok) VALUES (?,?)
		`, product.ID, tok); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) RemoveProduct(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_tokens WHERE product_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

const productColumns = `id, outlet_id, name, barcode, sku, category, active, synced_at`

func (s *Store) ActiveProducts(ctx context.Context, outletID string) ([]domain.Product, error) {
	// Outlet filtering rides the outlet index; the active filter is applied
	// on the scanned rows rather than through a compound index.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE outlet_id = ?
		ORDER BY name
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			continue
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *Store) AllProducts(ctx context.Context, outletID string) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE outlet_id = ?
		ORDER BY name
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// SearchProducts resolves in strict priority order: an exact barcode match
// wins outright, then an exact SKU match, then a token-prefix scan that is
// deduplicated and capped at store.SearchCap before the outlet/active filter.
// Barcode and SKU scans are operator-driven exact lookups and must never be
// shadowed by fuzzy name matches.
func (s *Store) SearchProducts(ctx context.Context, outletID string, query string) ([]domain.Product, error) {
	q := token.Normalize(query)
	if q == "" {
		return []domain.Product{}, nil
	}

	if product, err := s.productByExact(ctx, `barcode`, query); err != nil {
		return nil, err
	} else if product != nil {
		return []domain.Product{*product}, nil
	}

	if product, err := s.productByExact(ctx, `sku`, query); err != nil {
		return nil, err
	} else if product != nil {
		return []domain.Product{*product}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id IN (
			SELECT DISTINCT product_id FROM product_tokens
			WHERE tok LIKE ? ESCAPE '\'
			LIMIT ?
		)
		AND outlet_id = ? AND active = 1
		ORDER BY name
	`, escapeLike(q)+"%", store.SearchCap, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 16)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *Store) productByExact(ctx context.Context, column string, value string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE `+column+` = ? AND `+column+` != ''
		LIMIT 1
	`, strings.TrimSpace(value))

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product  domain.Product
		active   int
		syncedAt int64
	)
	err := row.Scan(&product.ID, &product.OutletID, &product.Name, &product.Barcode,
		&product.SKU, &product.Category, &active, &syncedAt)
	if err != nil {
		return domain.Product{}, err
	}
	product.Active = active == 1
	product.SyncedAt = fromMillis(syncedAt)
	product.NameTokens = token.Tokenize(product.Name)
	return product, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func (s *Store) StoreTransactions(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, record := range transactions {
		if err := upsertTransaction(ctx, tx, record); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertTransaction(ctx context.Context, tx *sql.Tx, record domain.Transaction) error {
	record.SearchTokens = token.Tokenize(record.Number, record.CustomerName, record.PaymentMethod)
	record.SyncedAt = time.Now().UTC()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, outlet_id, number, tx_date, customer_name, payment_method, status, synced_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			outlet_id      = excluded.outlet_id,
			number         = excluded.number,
			tx_date        = excluded.tx_date,
			customer_name  = excluded.customer_name,
			payment_method = excluded.payment_method,
			status         = excluded.status,
			synced_at      = excluded.synced_at
	`, record.ID, record.OutletID, record.Number, toMillis(record.Date),
		record.CustomerName, record.PaymentMethod, record.Status, toMillis(record.SyncedAt))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_tokens WHERE transaction_id = ?`, record.ID); err != nil {
		return err
	}
	for _, tok := range record.SearchTokens {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO transaction_tokens (transaction_id, tok) VALUES (?,?)
		`, record.ID, tok); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) RemoveTransaction(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_tokens WHERE transaction_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

const transactionColumns = `id, outlet_id, number, tx_date, customer_name, payment_method, status, synced_at`

func (s *Store) RecentTransactions(ctx context.Context, outletID string, limit int) ([]domain.Transaction, error) {
	if limit < 1 {
		limit = store.DefaultRecentLimit
	}

	// The (outlet_id, tx_date) index bounds the scan to the outlet's own range.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE outlet_id = ?
		ORDER BY tx_date DESC
		LIMIT ?
	`, outletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SearchTransactions returns the exact transaction-number match for the
// outlet when one exists, otherwise falls back to the capped token-prefix
// scan sorted newest-first (token order is not chronological).
func (s *Store) SearchTransactions(ctx context.Context, outletID string, query string) ([]domain.Transaction, error) {
	q := token.Normalize(query)
	if q == "" {
		return []domain.Transaction{}, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE outlet_id = ? AND number = ?
		LIMIT 1
	`, outletID, strings.TrimSpace(query))
	record, err := scanTransaction(row)
	if err == nil {
		return []domain.Transaction{record}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id IN (
			SELECT DISTINCT transaction_id FROM transaction_tokens
			WHERE tok LIKE ? ESCAPE '\'
			LIMIT ?
		)
		AND outlet_id = ?
		ORDER BY tx_date DESC
	`, escapeLike(q)+"%", store.SearchCap, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0, 32)
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, record)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		record   domain.Transaction
		txDate   int64
		syncedAt int64
	)
	err := row.Scan(&record.ID, &record.OutletID, &record.Number, &txDate,
		&record.CustomerName, &record.PaymentMethod, &record.Status, &syncedAt)
	if err != nil {
		return domain.Transaction{}, err
	}
	record.Date = fromMillis(txDate)
	record.SyncedAt = fromMillis(syncedAt)
	record.SearchTokens = token.Tokenize(record.Number, record.CustomerName, record.PaymentMethod)
	return record, nil
}

func (s *Store) EnqueueOfflineTransaction(ctx context.Context, payload domain.SalePayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	offlineID := xid.New("offline")
	createdAt := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO offline_transactions (offline_id, outlet_id, payload, status, created_at)
		VALUES (?,?,?,?,?)
	`, offlineID, payload.OutletID, string(body), domain.TxStatusOffline, toMillis(createdAt))
	if err != nil {
		return "", err
	}

	return offlineID, nil
}

func (s *Store) OfflineTransactions(ctx context.Context) ([]domain.OfflineTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT offline_id, payload, status, created_at
		FROM offline_transactions
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queued := make([]domain.OfflineTransaction, 0, 16)
	for rows.Next() {
		var (
			record    domain.OfflineTransaction
			body      string
			createdAt int64
		)
		if err := rows.Scan(&record.OfflineID, &body, &record.Status, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(body), &record.Payload); err != nil {
			return nil, err
		}
		record.CreatedAt = fromMillis(createdAt)
		queued = append(queued, record)
	}
	return queued, rows.Err()
}

func (s *Store) RemoveOfflineTransaction(ctx context.Context, offlineID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM offline_transactions WHERE offline_id = ?`, offlineID)
	return err
}

func (s *Store) ClearOfflineTransactions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM offline_transactions`)
	return err
}

func (s *Store) EnqueueSyncItem(ctx context.Context, itemType string, payload json.RawMessage) (int64, error) {
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (item_type, payload, status, attempts, created_at)
		VALUES (?,?,?,0,?)
	`, itemType, string(payload), domain.SyncStatusPending, toMillis(time.Now().UTC()))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) SyncQueueItems(ctx context.Context) ([]domain.SyncQueueItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_type, payload, status, attempts, created_at
		FROM sync_queue
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SyncQueueItem, 0, 16)
	for rows.Next() {
		var (
			item      domain.SyncQueueItem
			body      string
			createdAt int64
		)
		if err := rows.Scan(&item.ID, &item.Type, &body, &item.Status, &item.Attempts, &createdAt); err != nil {
			return nil, err
		}
		item.Payload = json.RawMessage(body)
		item.CreatedAt = fromMillis(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) MarkSyncItemProcessing(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET status = ?, attempts = attempts + 1 WHERE id = ?
	`, domain.SyncStatusProcessing, id)
	return err
}

func (s *Store) MarkSyncItemFailed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_queue SET status = ? WHERE id = ?
	`, domain.SyncStatusFailed, id)
	return err
}

func (s *Store) RemoveSyncItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	return err
}

func (s *Store) ClearSyncQueue(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_queue`)
	return err
}

func (s *Store) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	if len(value) == 0 {
		value = json.RawMessage(`null`)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), toMillis(time.Now().UTC()))
	return err
}

func (s *Store) GetSetting(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(body), true, nil
}

func (s *Store) StoreStaff(ctx context.Context, staff []domain.StaffMember) error {
	if len(staff) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, member := range staff {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO staff (id, outlet_id, name, role, pin_hash, active, synced_at)
			VALUES (?,?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
				outlet_id = excluded.outlet_id,
				name      = excluded.name,
				role      = excluded.role,
				pin_hash  = excluded.pin_hash,
				active    = excluded.active,
				synced_at = excluded.synced_at
		`, member.ID, member.OutletID, member.Name, member.Role, member.PINHash,
			boolToInt(member.Active), toMillis(now))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListStaff(ctx context.Context, outletID string) ([]domain.StaffMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, name, role, pin_hash, active, synced_at
		FROM staff
		WHERE outlet_id = ?
		ORDER BY name
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]domain.StaffMember, 0, 8)
	for rows.Next() {
		var (
			member   domain.StaffMember
			active   int
			syncedAt int64
		)
		if err := rows.Scan(&member.ID, &member.OutletID, &member.Name, &member.Role,
			&member.PINHash, &active, &syncedAt); err != nil {
			return nil, err
		}
		member.Active = active == 1
		member.SyncedAt = fromMillis(syncedAt)
		staff = append(staff, member)
	}
	return staff, rows.Err()
}
