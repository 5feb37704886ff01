package postgres

import (
	"context"
	"testing"
	"time"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cartColumnNames = []string{"id", "buyer_id", "items", "created_at", "updated_at"}

func TestCartRepo_Create_EmptyItemsAsArray(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCartRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := &domain.Cart{ID: uuid.New(), BuyerID: uuid.New(), CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(c.ID, c.BuyerID, []byte("[]"), c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepo_GetByIDAndBuyer_DecodesItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCartRepo(mock)
	id, buyer, artwork := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	items := []byte(`[{"artwork_id":"` + artwork.String() + `","title":"Harmattan Light","price":"450","quantity":2}]`)

	mock.ExpectQuery("SELECT .+ FROM carts WHERE id = \\$1 AND buyer_id = \\$2").
		WithArgs(id, buyer).
		WillReturnRows(pgxmock.NewRows(cartColumnNames).AddRow(id, buyer, items, now, now))

	got, err := repo.GetByIDAndBuyer(context.Background(), id, buyer)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, artwork, got.Items[0].ArtworkID)
	assert.True(t, decimal.RequireFromString("900").Equal(got.Total()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepo_GetByBuyer_None(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCartRepo(mock)
	buyer := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM carts\\s+WHERE buyer_id = \\$1\\s+ORDER BY updated_at DESC").
		WithArgs(buyer).
		WillReturnRows(pgxmock.NewRows(cartColumnNames))

	got, err := repo.GetByBuyer(context.Background(), buyer)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepo_UpdateItems_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCartRepo(mock)
	c := &domain.Cart{ID: uuid.New(), UpdatedAt: time.Now().UTC()}

	mock.ExpectExec("UPDATE carts SET items").
		WithArgs([]byte("[]"), c.UpdatedAt, c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateItems(context.Background(), c)
	assert.ErrorContains(t, err, "cart not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepo_Delete_Absent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCartRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM carts WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
