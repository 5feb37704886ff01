package handler

import (
	"art-marketplace/internal/adapter/http/dto"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ArtworkHandler serves artwork listings.
type ArtworkHandler struct {
	artworkSvc ports.ArtworkService
}

func NewArtworkHandler(artworkSvc ports.ArtworkService) *ArtworkHandler {
	return &ArtworkHandler{artworkSvc: artworkSvc}
}

// Create handles POST /api/v1/artworks.
func (h *ArtworkHandler) Create(c *gin.Context) {
	artistID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	isOriginal := true
	if req.IsOriginal != nil {
		isOriginal = *req.IsOriginal
	}

	artwork, err := h.artworkSvc.Create(c.Request.Context(), artistID, ports.CreateArtworkRequest{
		Title:       req.Title,
		Price:       req.Price,
		Medium:      req.Medium,
		Dimensions:  req.Dimensions,
		Description: req.Description,
		IsOriginal:  isOriginal,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, artwork)
}

// Get handles GET /api/v1/artworks/:id.
func (h *ArtworkHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	artwork, err := h.artworkSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, artwork)
}
