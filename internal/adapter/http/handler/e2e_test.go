package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"art-marketplace/internal/adapter/http/middleware"
	redisStorage "art-marketplace/internal/adapter/storage/redis"
	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/internal/core/ports/mocks"
	"art-marketplace/internal/service"
	"art-marketplace/pkg/apperror"
	"art-marketplace/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.ErrUserExists()
	}
	cp := *user
	m.byEmail[user.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type e2eApp struct {
	router   *gin.Engine
	redis    *miniredis.Miniredis
	orders   *mocks.MockOrderService
	checkout *mocks.MockCheckoutService
	sigSvc   *service.HMACSignatureService
	registry *prometheus.Registry
}

const e2eSecret = "sk_test_e2e"

// newE2EApp wires real auth, token, hashing, signature, rate limiting and
// metrics behind the real router. Order and checkout engines are mocked.
func newE2EApp(t *testing.T, authLimit int64) *e2eApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctrl := gomock.NewController(t)
	log := zerolog.Nop()
	reg := prometheus.NewRegistry()

	tokenSvc := service.NewJWTTokenService("e2e-jwt-secret", time.Hour, "art-marketplace")
	hashSvc := service.NewArgon2HashService(service.Argon2Params{Time: 1, MemoryKiB: 1024, Threads: 1})
	authSvc := service.NewAuthService(&memUsers{byEmail: map[string]*domain.User{}}, hashSvc, tokenSvc, log)
	sigSvc := service.NewHMACSignatureService()

	app := &e2eApp{
		redis:    mr,
		orders:   mocks.NewMockOrderService(ctrl),
		checkout: mocks.NewMockCheckoutService(ctrl),
		sigSvc:   sigSvc,
		registry: reg,
	}

	app.router = SetupRouter(RouterDeps{
		AuthSvc:        authSvc,
		ArtworkSvc:     mocks.NewMockArtworkService(ctrl),
		CartSvc:        mocks.NewMockCartService(ctrl),
		CheckoutSvc:    app.checkout,
		OrderSvc:       app.orders,
		WalletSvc:      mocks.NewMockWalletService(ctrl),
		TokenSvc:       tokenSvc,
		SigSvc:         sigSvc,
		WebhookSecret:  e2eSecret,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		RateLimits: map[string]middleware.RateLimitRule{
			GroupAuth:    {Limit: authLimit, Window: time.Minute},
			GroupAPI:     {Limit: 100, Window: time.Minute},
			GroupWebhook: {Limit: 100, Window: time.Minute},
		},
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		MaxBodyBytes: 1 << 16,
		Logger:       log,
	})
	return app
}

func (a *e2eApp) send(t *testing.T, method, path, token string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *e2eApp) registerAndLogin(t *testing.T, email, role string) string {
	t.Helper()
	reg, _ := json.Marshal(map[string]string{"email": email, "password": "correct-horse", "full_name": "Test User", "role": role})
	w := a.send(t, http.MethodPost, "/api/v1/auth/register", "", reg, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	login, _ := json.Marshal(map[string]string{"email": email, "password": "correct-horse"})
	w = a.send(t, http.MethodPost, "/api/v1/auth/login", "", login, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestE2E_RegisterLoginAndRoleGates(t *testing.T) {
	app := newE2EApp(t, 100)

	artistToken := app.registerAndLogin(t, "Painter@Example.com", "artist")
	buyerToken := app.registerAndLogin(t, "collector@example.com", "buyer")

	app.orders.EXPECT().Earnings(gomock.Any(), gomock.Any()).Return(&domain.EarningsSummary{TotalSales: 2, Earnings: decimal.NewFromInt(900)}, nil)

	w := app.send(t, http.MethodGet, "/api/v1/artist/earnings", artistToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"earnings":"900"`)

	w = app.send(t, http.MethodGet, "/api/v1/artist/earnings", buyerToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	dup, _ := json.Marshal(map[string]string{"email": "painter@example.com", "password": "another-pass", "full_name": "Dup", "role": "buyer"})
	w = app.send(t, http.MethodPost, "/api/v1/auth/register", "", dup, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	bad, _ := json.Marshal(map[string]string{"email": "painter@example.com", "password": "wrong-password"})
	w = app.send(t, http.MethodPost, "/api/v1/auth/login", "", bad, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestE2E_AuthRateLimit(t *testing.T) {
	app := newE2EApp(t, 2)
	body, _ := json.Marshal(map[string]string{"email": "nobody@example.com", "password": "whatever1"})

	for i := 0; i < 2; i++ {
		w := app.send(t, http.MethodPost, "/api/v1/auth/login", "", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := app.send(t, http.MethodPost, "/api/v1/auth/login", "", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestE2E_SignedWebhookSettles(t *testing.T) {
	app := newE2EApp(t, 100)
	payload := []byte(`{"event":"charge.success","data":{"reference":"ord_e2e"}}`)

	app.checkout.EXPECT().VerifyPayment(gomock.Any(), "ord_e2e").
		Return(&ports.SettlementResult{Success: true, Message: "Payment verified and 1 orders updated", OrdersUpdated: 1}, nil)

	w := app.send(t, http.MethodPost, "/api/v1/webhooks/paystack", "", payload, map[string]string{
		middleware.HeaderPaystackSignature: app.sigSvc.Sign(e2eSecret, payload),
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.send(t, http.MethodPost, "/api/v1/webhooks/paystack", "", payload, map[string]string{
		middleware.HeaderPaystackSignature: app.sigSvc.Sign("wrong-secret", payload),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestE2E_BodyLimitAndMetrics(t *testing.T) {
	app := newE2EApp(t, 100)

	huge := []byte(`{"email":"a@example.com","password":"` + strings.Repeat("x", 1<<17) + `"}`)
	w := app.send(t, http.MethodPost, "/api/v1/auth/login", "", huge, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = app.send(t, http.MethodGet, "/metrics", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")

	count, err := testutil.GatherAndCount(app.registry, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}
