package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

// RejectedError is returned when the API answers a cart call with a non-2xx
// status below 500. Message is the API's error payload, empty if none.
type RejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s rejected with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s rejected with status %d", e.Op, e.StatusCode)
}

type CartClient interface {
	ListItems(ctx context.Context) ([]domain.CartLine, error)
	AddItem(ctx context.Context, productID, quantity int) (json.RawMessage, error)
	UpdateItem(ctx context.Context, lineID, quantity int) (json.RawMessage, error)
	RemoveItem(ctx context.Context, lineID int) (json.RawMessage, error)
	Clear(ctx context.Context) (json.RawMessage, error)
	Total(ctx context.Context) (decimal.Decimal, error)
}

type httpCartClient struct {
	api *apiclient.Client
}

func NewHTTPCartClient(api *apiclient.Client) CartClient {
	return &httpCartClient{api: api}
}

func (c *httpCartClient) ListItems(ctx context.Context) ([]domain.CartLine, error) {
	resp, err := c.api.Get(ctx, "/cart", nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, rejected("ListItems", resp)
	}
	lines := []domain.CartLine{}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return lines, nil
	}
	if err := resp.DecodeJSON(&lines); err != nil {
		logger.Error("CartClient.ListItems: JSON decode failed", err)
		return nil, err
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

func (c *httpCartClient) AddItem(ctx context.Context, productID, quantity int) (json.RawMessage, error) {
	q := url.Values{
		"productId": {strconv.Itoa(productID)},
		"quantity":  {strconv.Itoa(quantity)},
	}
	resp, err := c.api.Post(ctx, "/cart", q)
	return mutationResult("AddItem", resp, err)
}

func (c *httpCartClient) UpdateItem(ctx context.Context, lineID, quantity int) (json.RawMessage, error) {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	resp, err := c.api.Put(ctx, fmt.Sprintf("/cart/%d", lineID), q, nil, "")
	return mutationResult("UpdateItem", resp, err)
}

func (c *httpCartClient) RemoveItem(ctx context.Context, lineID int) (json.RawMessage, error) {
	resp, err := c.api.Delete(ctx, fmt.Sprintf("/cart/%d", lineID))
	return mutationResult("RemoveItem", resp, err)
}

func (c *httpCartClient) Clear(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.api.Delete(ctx, "/cart")
	return mutationResult("Clear", resp, err)
}

// Total accepts both {"total": n} and a bare number (or numeric string).
func (c *httpCartClient) Total(ctx context.Context) (decimal.Decimal, error) {
	resp, err := c.api.Get(ctx, "/cart/total", nil)
	if err != nil {
		return decimal.Zero, err
	}
	if !resp.IsSuccess() {
		return decimal.Zero, rejected("Total", resp)
	}
	return parseTotal(resp.Body)
}

func parseTotal(body []byte) (decimal.Decimal, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return decimal.Zero, errors.New("empty cart total")
	}
	if body[0] == '{' {
		var payload struct {
			Total *decimal.Decimal `json:"total"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return decimal.Zero, fmt.Errorf("failed to decode cart total: %w", err)
		}
		if payload.Total == nil {
			return decimal.Zero, errors.New("cart total missing from payload")
		}
		return *payload.Total, nil
	}
	var total decimal.Decimal
	if err := json.Unmarshal(body, &total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode cart total: %w", err)
	}
	return total, nil
}

func mutationResult(op string, resp *apiclient.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, rejected(op, resp)
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		// backend kadang balas plain text untuk sukses
		quoted, _ := json.Marshal(string(body))
		return quoted, nil
	}
	return json.RawMessage(body), nil
}

func rejected(op string, resp *apiclient.Response) error {
	return &RejectedError{Op: op, StatusCode: resp.StatusCode, Message: apiclient.ErrorMessage(resp, "")}
}
