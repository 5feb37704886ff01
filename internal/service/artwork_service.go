package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ArtworkServiceImpl implements ports.ArtworkService.
type ArtworkServiceImpl struct {
	artworkRepo ports.ArtworkRepository
	log         zerolog.Logger
}

// NewArtworkService creates a new ArtworkServiceImpl.
func NewArtworkService(artworkRepo ports.ArtworkRepository, log zerolog.Logger) *ArtworkServiceImpl {
	return &ArtworkServiceImpl{artworkRepo: artworkRepo, log: log}
}

// Create lists a new artwork owned by artistID.
func (s *ArtworkServiceImpl) Create(ctx context.Context, artistID uuid.UUID, req ports.CreateArtworkRequest) (*domain.Artwork, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}
	if !req.Price.IsPositive() {
		return nil, apperror.Validation("price must be greater than zero")
	}

	artwork := &domain.Artwork{
		ID:          uuid.New(),
		ArtistID:    artistID,
		Title:       title,
		Price:       req.Price,
		Medium:      req.Medium,
		Dimensions:  req.Dimensions,
		Description: req.Description,
		IsOriginal:  req.IsOriginal,
		ImageKey:    req.ImageKey,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.artworkRepo.Create(ctx, artwork); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create artwork: %w", err))
	}

	s.log.Info().
		Str("artwork_id", artwork.ID.String()).
		Str("artist_id", artistID.String()).
		Str("price", artwork.Price.String()).
		Msg("artwork listed")
	return artwork, nil
}

func (s *ArtworkServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Artwork, error) {
	artwork, err := s.artworkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get artwork: %w", err))
	}
	if artwork == nil {
		return nil, apperror.ErrArtworkNotFound()
	}
	return artwork, nil
}
