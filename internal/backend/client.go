// Package backend is the HTTP client for the hosted POS backend. Response
// shapes match the locally cached records minus the derived token and
// sync-timestamp fields, which the local store computes on write.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lapakpos/terminal/internal/domain"
)

type Client struct {
	baseURL    string
	apiKey     string
	terminalID string
	httpClient *http.Client
}

func NewClient(baseURL string, apiKey string, terminalID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		terminalID: terminalID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Ping reports whether the backend is reachable right now.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/ping", nil, nil)
}

// FetchProducts pages through the outlet catalog until the backend reports
// no more pages, returning the full snapshot.
func (c *Client) FetchProducts(ctx context.Context, outletID string) ([]domain.Product, error) {
	products := make([]domain.Product, 0, 256)
	page := 1
	for {
		var resp struct {
			Products []domain.Product `json:"products"`
			HasMore  bool             `json:"has_more"`
		}
		path := fmt.Sprintf("/v1/outlets/%s/products?page=%d", url.PathEscape(outletID), page)
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("fetch products page %d: %w", page, err)
		}
		products = append(products, resp.Products...)
		if !resp.HasMore {
			return products, nil
		}
		page++
	}
}

func (c *Client) FetchTransactions(ctx context.Context, outletID string, limit int) ([]domain.Transaction, error) {
	var resp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	path := fmt.Sprintf("/v1/outlets/%s/transactions?limit=%s", url.PathEscape(outletID), strconv.Itoa(limit))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return resp.Transactions, nil
}

func (c *Client) FetchStaff(ctx context.Context, outletID string) ([]domain.StaffMember, error) {
	var resp struct {
		Staff []struct {
			domain.StaffMember
			PINHash string `json:"pin_hash"`
		} `json:"staff"`
	}
	path := fmt.Sprintf("/v1/outlets/%s/staff", url.PathEscape(outletID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch staff: %w", err)
	}
	staff := make([]domain.StaffMember, 0, len(resp.Staff))
	for _, member := range resp.Staff {
		record := member.StaffMember
		record.PINHash = member.PINHash
		staff = append(staff, record)
	}
	return staff, nil
}

// PushSale submits a locally created sale. The returned id is the server's
// transaction id, which supersedes the local offline id.
func (c *Client) PushSale(ctx context.Context, offlineID string, payload domain.SalePayload) (string, error) {
	body := struct {
		OfflineID string             `json:"offline_id"`
		Sale      domain.SalePayload `json:"sale"`
	}{OfflineID: offlineID, Sale: payload}

	var resp struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", body, &resp); err != nil {
		return "", fmt.Errorf("push sale %s: %w", offlineID, err)
	}
	return resp.TransactionID, nil
}

// PushSyncItem submits one generic deferred write.
func (c *Client) PushSyncItem(ctx context.Context, itemType string, payload json.RawMessage) error {
	body := struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{Type: itemType, Payload: payload}

	if err := c.do(ctx, http.MethodPost, "/v1/sync-items", body, nil); err != nil {
		return fmt.Errorf("push sync item %s: %w", itemType, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.terminalID != "" {
		req.Header.Set("X-Terminal-ID", c.terminalID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
