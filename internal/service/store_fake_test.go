package service

import (
	"context"
	"sort"
	"sync"

	"art-marketplace/internal/core/domain"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memOrders is an in-memory OrderRepository. Writes apply immediately; the
// one-live-order rule mirrors the partial unique index on orders.
type memOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	seq    []uuid.UUID

	// listErr fails the next ListByReference call once.
	listErr error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *memOrders) Create(_ context.Context, _ pgx.Tx, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.BuyerID == order.BuyerID && o.ArtworkID == order.ArtworkID && o.IsActive() {
			return apperror.ErrOrderAlreadyExists()
		}
	}
	cp := *order
	m.orders[order.ID] = &cp
	m.seq = append(m.seq, order.ID)
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) FindActive(_ context.Context, buyerID, artworkID uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.BuyerID == buyerID && o.ArtworkID == artworkID && o.IsActive() {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memOrders) filter(keep func(*domain.Order) bool) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for i := len(m.seq) - 1; i >= 0; i-- {
		if o := m.orders[m.seq[i]]; keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func page(orders []domain.Order, limit, offset int) []domain.Order {
	if offset >= len(orders) {
		return nil
	}
	orders = orders[offset:]
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

func (m *memOrders) ListByBuyer(_ context.Context, buyerID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	return page(m.filter(func(o *domain.Order) bool { return o.BuyerID == buyerID }), limit, offset), nil
}

func (m *memOrders) ListByArtist(_ context.Context, artistID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	return page(m.filter(func(o *domain.Order) bool { return o.ArtistID == artistID }), limit, offset), nil
}

func (m *memOrders) ListByReference(_ context.Context, reference string) ([]domain.Order, error) {
	m.mu.Lock()
	if err := m.listErr; err != nil {
		m.listErr = nil
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()
	out := m.filter(func(o *domain.Order) bool { return o.Reference == reference })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) TransitionStatus(_ context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (m *memOrders) MarkPaidByReference(_ context.Context, reference string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if o.Reference == reference && o.Status == domain.OrderStatusPending {
			o.Status = domain.OrderStatusCompleted
			n++
		}
	}
	return n, nil
}

func (m *memOrders) CancelPending(_ context.Context, _ pgx.Tx, buyerID, artworkID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if o.BuyerID == buyerID && o.ArtworkID == artworkID && o.Status == domain.OrderStatusPending {
			o.Status = domain.OrderStatusCancelled
			n++
		}
	}
	return n, nil
}

func (m *memOrders) EarningsByArtist(_ context.Context, artistID uuid.UUID) (*domain.EarningsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &domain.EarningsSummary{ArtistID: artistID, Earnings: decimal.Zero}
	for _, o := range m.orders {
		if o.ArtistID == artistID && o.Status == domain.OrderStatusCompleted {
			summary.TotalSales++
			summary.Earnings = summary.Earnings.Add(o.Price)
		}
	}
	return summary, nil
}

func (m *memOrders) byStatus(status domain.OrderStatus) []domain.Order {
	return m.filter(func(o *domain.Order) bool { return o.Status == status })
}

// memArtworks is an in-memory ArtworkRepository.
type memArtworks struct {
	mu       sync.Mutex
	artworks map[uuid.UUID]domain.Artwork
}

func newMemArtworks(artworks ...domain.Artwork) *memArtworks {
	m := &memArtworks{artworks: make(map[uuid.UUID]domain.Artwork)}
	for _, a := range artworks {
		m.artworks[a.ID] = a
	}
	return m
}

func (m *memArtworks) Create(_ context.Context, artwork *domain.Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artworks[artwork.ID] = *artwork
	return nil
}

func (m *memArtworks) GetByID(_ context.Context, id uuid.UUID) (*domain.Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artworks[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// fakeTransactor hands out no-op transactions.
type fakeTransactor struct{}

func (fakeTransactor) Begin(_ context.Context) (pgx.Tx, error) { return &mockTx{}, nil }
