package postgres

import (
	"context"
	"errors"
	"fmt"

	"art-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ArtworkRepo implements ports.ArtworkRepository.
type ArtworkRepo struct {
	pool Pool
}

// NewArtworkRepo creates a new ArtworkRepo.
func NewArtworkRepo(pool Pool) *ArtworkRepo {
	return &ArtworkRepo{pool: pool}
}

func (r *ArtworkRepo) Create(ctx context.Context, a *domain.Artwork) error {
	query := `INSERT INTO artworks (id, artist_id, title, price, medium, dimensions, description, is_original, image_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.ArtistID, a.Title, a.Price, a.Medium, a.Dimensions,
		a.Description, a.IsOriginal, a.ImageKey, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert artwork: %w", err)
	}
	return nil
}

func (r *ArtworkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error) {
	query := `SELECT id, artist_id, title, price, medium, dimensions, description, is_original, image_key, created_at
		FROM artworks WHERE id = $1`

	a := &domain.Artwork{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.ArtistID, &a.Title, &a.Price, &a.Medium, &a.Dimensions,
		&a.Description, &a.IsOriginal, &a.ImageKey, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get artwork by id: %w", err)
	}
	return a, nil
}
