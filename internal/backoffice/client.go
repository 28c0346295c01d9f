// Package backoffice talks to the external back-office REST API that owns
// products, loyalty cards, promotions and sales.
package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrNotFound is returned for a 404 or an envelope without data.
var ErrNotFound = errors.New("backoffice: resource not found")

// APIError is any other non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backoffice: status %d: %s", e.StatusCode, e.Message)
}

type Client interface {
	CreateSale(ctx context.Context, token string, req *models.CreateSaleRequest) (*models.Sale, error)
	GetProduct(ctx context.Context, token string, id int64) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, token string, barcode string) (*models.Product, error)
	GetProductBySKU(ctx context.Context, token string, sku string) (*models.Product, error)
	GetLoyaltyCardByCustomer(ctx context.Context, token string, customerID int64) (*models.LoyaltyCard, error)
	DeductFromWallet(ctx context.Context, token string, cardNumber string, amount float64) (*models.LoyaltyCard, error)
	AddPoints(ctx context.Context, token string, cardNumber string, points int64) (*models.LoyaltyCard, error)
	GetPromotionByCode(ctx context.Context, token string, code string) (*models.Promotion, error)
	Ping(ctx context.Context) error
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	Error     string          `json:"error"`
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *httpClient) CreateSale(ctx context.Context, token string, req *models.CreateSaleRequest) (*models.Sale, error) {
	var sale models.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", nil, token, req, &sale); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (c *httpClient) GetProduct(ctx context.Context, token string, id int64) (*models.Product, error) {
	return c.getProduct(ctx, token, "/products/"+strconv.FormatInt(id, 10))
}

func (c *httpClient) GetProductByBarcode(ctx context.Context, token string, barcode string) (*models.Product, error) {
	return c.getProduct(ctx, token, "/products/barcode/"+url.PathEscape(barcode))
}

func (c *httpClient) GetProductBySKU(ctx context.Context, token string, sku string) (*models.Product, error) {
	return c.getProduct(ctx, token, "/products/sku/"+url.PathEscape(sku))
}

func (c *httpClient) getProduct(ctx context.Context, token, path string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *httpClient) GetLoyaltyCardByCustomer(ctx context.Context, token string, customerID int64) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := c.do(ctx, http.MethodGet, "/loyalty/customer/"+strconv.FormatInt(customerID, 10), nil, token, nil, &card); err != nil {
		return nil, err
	}

	return &card, nil
}

func (c *httpClient) DeductFromWallet(ctx context.Context, token string, cardNumber string, amount float64) (*models.LoyaltyCard, error) {
	query := url.Values{"amount": {strconv.FormatFloat(amount, 'f', -1, 64)}}

	var card models.LoyaltyCard
	if err := c.do(ctx, http.MethodPost, "/loyalty/"+url.PathEscape(cardNumber)+"/wallet/deduct", query, token, nil, &card); err != nil {
		return nil, err
	}

	return &card, nil
}

func (c *httpClient) AddPoints(ctx context.Context, token string, cardNumber string, points int64) (*models.LoyaltyCard, error) {
	query := url.Values{"points": {strconv.FormatInt(points, 10)}}

	var card models.LoyaltyCard
	if err := c.do(ctx, http.MethodPost, "/loyalty/"+url.PathEscape(cardNumber)+"/points/add", query, token, nil, &card); err != nil {
		return nil, err
	}

	return &card, nil
}

func (c *httpClient) GetPromotionByCode(ctx context.Context, token string, code string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := c.do(ctx, http.MethodGet, "/promotions/code/"+url.PathEscape(code), nil, token, nil, &promo); err != nil {
		return nil, err
	}

	return &promo, nil
}

// Ping reports whether the back-office answers at all; any HTTP status counts as reachable.
func (c *httpClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/actuator/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backoffice unreachable: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return nil
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, token string, body any, out any) error {

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	var env envelope

	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(env, decodeErr, resp.StatusCode)}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, decodeErr)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNotFound
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s data: %w", method, path, err)
	}

	return nil
}

func errorMessage(env envelope, decodeErr error, status int) string {
	if decodeErr == nil {
		if env.Message != "" {
			return env.Message
		}

		if env.Error != "" {
			return env.Error
		}
	}

	return http.StatusText(status)
}
