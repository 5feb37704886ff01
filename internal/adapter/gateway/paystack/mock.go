package paystack

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"art-marketplace/internal/core/ports"
)

type mockTransaction struct {
	email    string
	amount   int64
	metadata ports.PaymentMetadata
}

// MockGateway is an in-process ports.PaymentGateway. Every initialized
// transaction verifies as successful and echoes its metadata back.
type MockGateway struct {
	mu           sync.Mutex
	baseURL      string
	transactions map[string]mockTransaction
}

// NewMockGateway creates a mock whose authorization URLs live under baseURL.
func NewMockGateway(baseURL string) *MockGateway {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &MockGateway{
		baseURL:      strings.TrimRight(baseURL, "/"),
		transactions: make(map[string]mockTransaction),
	}
}

func (m *MockGateway) Initialize(_ context.Context, req ports.GatewayInitRequest) (*ports.GatewayInitResult, error) {
	reference := req.Reference
	if reference == "" {
		reference = "txn_" + randomHex(4)
	}

	m.mu.Lock()
	m.transactions[reference] = mockTransaction{email: req.Email, amount: req.AmountMinor, metadata: req.Metadata}
	m.mu.Unlock()

	return &ports.GatewayInitResult{
		AuthorizationURL: m.baseURL + "/mock-paystack/authorize/" + reference,
		AccessCode:       "ac_" + randomHex(4),
		Reference:        reference,
	}, nil
}

func (m *MockGateway) Verify(_ context.Context, reference string) (*ports.GatewayVerifyResult, error) {
	m.mu.Lock()
	txn, ok := m.transactions[reference]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("mock paystack: transaction %q not found", reference)
	}

	return &ports.GatewayVerifyResult{
		Status:        "success",
		Reference:     reference,
		AmountMinor:   txn.amount,
		Metadata:      txn.metadata,
		CustomerEmail: txn.email,
	}, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
