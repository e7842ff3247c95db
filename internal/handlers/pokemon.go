package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nikhil00shinde/pokemon-api/internal/services"
	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
	"github.com/nikhil00shinde/pokemon-api/pkg/response"
	"github.com/nikhil00shinde/pokemon-api/pkg/validator"
)

// PokemonHandler exposes the CRUD surface over the pokedex service.
type PokemonHandler struct {
	svc *services.PokedexService
}

func NewPokemonHandler(svc *services.PokedexService) *PokemonHandler {
	return &PokemonHandler{svc: svc}
}

// List handles GET /pokemon
func (h *PokemonHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Get handles GET /pokemon/:id
func (h *PokemonHandler) Get(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.JSON(c, http.StatusOK, record)
}

type createPokemonRequest struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Level *int   `json:"level" binding:"omitempty,min=1,max=100"`
}

// Create handles POST /pokemon
func (h *PokemonHandler) Create(c *gin.Context) {
	var body createPokemonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperrors.NewBadRequest("name and type are required; level must be between 1 and 100"))
		return
	}

	record, err := h.svc.Create(c.Request.Context(), services.CreatePokemonInput{
		Name:  body.Name,
		Type:  body.Type,
		Level: body.Level,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.JSON(c, http.StatusCreated, record)
}

type updateLevelRequest struct {
	Level *int `json:"level" binding:"required"`
}

// UpdateLevel handles PATCH /pokemon/:id
func (h *PokemonHandler) UpdateLevel(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}

	var body updateLevelRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Level == nil {
		response.Error(c, apperrors.NewBadRequest("level is required"))
		return
	}

	record, err := h.svc.UpdateLevel(c.Request.Context(), id, *body.Level)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.JSON(c, http.StatusOK, record)
}

// Delete handles DELETE /pokemon/:id
func (h *PokemonHandler) Delete(c *gin.Context) {
	id, ok := pokemonID(c)
	if !ok {
		return
	}

	record, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "Pokemon released",
		"pokemon": record,
	})
}

func pokemonID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(c, apperrors.NewBadRequest("pokemon id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// mapServiceError translates service-level failures into API errors.
// Validation failures surface as 400, missing records as 404; anything else
// keeps its AppError mapping (store failures are already 500s).
func mapServiceError(err error) error {
	if errors.Is(err, services.ErrPokemonNotFound) {
		return apperrors.ErrNotFound
	}

	var failures validator.ValidationErrors
	if errors.As(err, &failures) {
		return apperrors.NewBadRequest(failures.Error())
	}

	return err
}
