// Package paystack implements ports.PaymentGateway against the Paystack
// transaction API, plus an in-process mock for local development.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"art-marketplace/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.paystack.co"

	// EventChargeSuccess is the webhook event that settles a checkout.
	EventChargeSuccess = "charge.success"

	maxResponseBytes = 1 << 20
)

// ErrNotConfigured is returned when no secret key is set.
var ErrNotConfigured = errors.New("paystack secret key not configured")

// Config holds client settings.
type Config struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the Paystack REST API.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

// envelope is the response wrapper every Paystack endpoint uses.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string                `json:"email"`
	Amount      int64                 `json:"amount"`
	Reference   string                `json:"reference,omitempty"`
	CallbackURL string                `json:"callback_url,omitempty"`
	Metadata    ports.PaymentMetadata `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Metadata  json.RawMessage `json:"metadata"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// Initialize starts a hosted payment for AmountMinor kobo.
func (c *Client) Initialize(ctx context.Context, req ports.GatewayInitRequest) (*ports.GatewayInitResult, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Reference:   req.Reference,
		CallbackURL: c.cfg.CallbackURL,
		Metadata:    req.Metadata,
	}

	var data initializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}

	c.log.Debug().
		Str("reference", data.Reference).
		Int64("amount_minor", req.AmountMinor).
		Msg("paystack transaction initialized")

	return &ports.GatewayInitResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the final state of a transaction.
func (c *Client) Verify(ctx context.Context, reference string) (*ports.GatewayVerifyResult, error) {
	var data verifyData
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}

	result := &ports.GatewayVerifyResult{
		Status:        data.Status,
		Reference:     data.Reference,
		AmountMinor:   data.Amount,
		CustomerEmail: data.Customer.Email,
	}
	if result.Reference == "" {
		result.Reference = reference
	}
	result.Metadata = decodeMetadata(data.Metadata)
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.cfg.SecretKey == "" {
		return ErrNotConfigured
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: status %d: decode response: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// APIError is a non-success reply from Paystack.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack: status %d: %s", e.StatusCode, e.Message)
}

// decodeMetadata tolerates Paystack returning metadata as an object, an
// empty string, or null.
func decodeMetadata(raw json.RawMessage) ports.PaymentMetadata {
	var meta ports.PaymentMetadata
	if len(raw) == 0 || raw[0] != '{' {
		return meta
	}
	_ = json.Unmarshal(raw, &meta)
	return meta
}

// WebhookEvent is the subset of a Paystack webhook body the marketplace reads.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a webhook body.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &ev, nil
}
