package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nikhil00shinde/pokemon-api/internal/cache"
	"github.com/nikhil00shinde/pokemon-api/internal/models"
	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
	"github.com/nikhil00shinde/pokemon-api/pkg/logger"
	"github.com/nikhil00shinde/pokemon-api/pkg/metrics"
	"github.com/nikhil00shinde/pokemon-api/pkg/validator"
)

var (
	// ErrPokemonNotFound indicates the requested record does not exist.
	ErrPokemonNotFound = errors.New("pokedex service: pokemon not found")
)

// Provenance values reported on list responses.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

// pokemonListKey is the single cache key this service maintains. The cache
// holds one full-list snapshot; per-record caching is deliberately avoided so
// invalidation stays a single delete.
const pokemonListKey = "pokemon:list"

const defaultListTTL = 30 * time.Second

// PokedexService coordinates the relational store and the list cache.
// Reads go through the cache when possible; every successful mutation
// invalidates it. The database is the sole source of truth, so the service
// holds no mutable state of its own and is safe for concurrent use.
type PokedexService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewPokedexService constructs the service. The cache store may be nil, in
// which case every list read goes to the database.
func NewPokedexService(db *gorm.DB, store cache.Store, ttl time.Duration) (*PokedexService, error) {
	if db == nil {
		return nil, errors.New("pokedex service: db is required")
	}
	if ttl <= 0 {
		ttl = defaultListTTL
	}

	return &PokedexService{
		db:    db,
		cache: store,
		ttl:   ttl,
		log:   logger.WithModule("pokedex"),
	}, nil
}

// ListResult carries the list snapshot plus its provenance.
type ListResult struct {
	Source string           `json:"source"`
	Total  int              `json:"total"`
	Data   []models.Pokemon `json:"data"`
}

// List returns all records ordered by caught_at descending. It consults the
// cache first; on a miss (or any cache failure, which is treated as a miss)
// the list is read from the database and the snapshot is stored with the
// configured TTL. Cache failures never fail the read.
func (s *PokedexService) List(ctx context.Context) (*ListResult, error) {
	ctx = ensuredContext(ctx)

	if cached, ok := s.readSnapshot(ctx); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &ListResult{Source: SourceCache, Total: len(cached), Data: cached}, nil
	}

	var records []models.Pokemon
	if err := s.db.WithContext(ctx).Order("caught_at DESC").Find(&records).Error; err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	s.writeSnapshot(ctx, records)

	return &ListResult{Source: SourceDatabase, Total: len(records), Data: records}, nil
}

// Get retrieves a single record by id. Single-record reads bypass the cache:
// the cache holds only the full-list snapshot.
func (s *PokedexService) Get(ctx context.Context, id uint) (*models.Pokemon, error) {
	ctx = ensuredContext(ctx)

	var record models.Pokemon
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}
	return &record, nil
}

// CreatePokemonInput captures required fields when catching a pokemon.
// A nil Level defaults to 1; a provided level must be within [1,100].
type CreatePokemonInput struct {
	Name  string `validate:"required"`
	Type  string `validate:"required"`
	Level *int   `validate:"omitempty,min=1,max=100"`
}

// Create validates input before touching either store, inserts the record
// (the store assigns id and caught_at) and invalidates the list snapshot.
func (s *PokedexService) Create(ctx context.Context, input CreatePokemonInput) (*models.Pokemon, error) {
	ctx = ensuredContext(ctx)

	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.TrimSpace(input.Type)
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	level := 1
	if input.Level != nil {
		level = *input.Level
	}

	record := models.Pokemon{
		Name:  input.Name,
		Type:  input.Type,
		Level: level,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	s.invalidate(ctx)
	return &record, nil
}

// UpdateLevel sets the level of an existing record and invalidates the list
// snapshot. The not-found check short-circuits before any cache work.
func (s *PokedexService) UpdateLevel(ctx context.Context, id uint, level int) (*models.Pokemon, error) {
	ctx = ensuredContext(ctx)

	if level < 1 || level > 100 {
		return nil, apperrors.NewBadRequest("level must be between 1 and 100")
	}

	var record models.Pokemon
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	record.Level = level
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	s.invalidate(ctx)
	return &record, nil
}

// Delete removes a record by id, invalidates the list snapshot and returns
// the deleted row as confirmation.
func (s *PokedexService) Delete(ctx context.Context, id uint) (*models.Pokemon, error) {
	ctx = ensuredContext(ctx)

	var record models.Pokemon
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Pokemon{}, id).Error; err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithInternal(err)
	}

	s.invalidate(ctx)
	return &record, nil
}

// Count reports the number of stored records. Used by the stats endpoint.
func (s *PokedexService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ensuredContext(ctx)).Model(&models.Pokemon{}).Count(&count).Error; err != nil {
		return 0, apperrors.ErrStoreUnavailable.WithInternal(err)
	}
	return count, nil
}

// readSnapshot returns the cached list when present and intact. Any cache
// error or corrupt payload counts as a miss: reads must stay available when
// the cache is not.
func (s *PokedexService) readSnapshot(ctx context.Context) ([]models.Pokemon, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, found, err := s.cache.Get(ctx, pokemonListKey)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("cache read failed, falling through to database", zap.Error(err))
		return nil, false
	}
	if !found {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var records []models.Pokemon
	if err := json.Unmarshal(value, &records); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("discarding corrupt cache snapshot", zap.Error(err))
		return nil, false
	}
	return records, true
}

// writeSnapshot stores the list with the configured TTL. Failures are soft:
// the next read simply hits the database again.
func (s *PokedexService) writeSnapshot(ctx context.Context, records []models.Pokemon) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(records)
	if err != nil {
		s.log.Warn("marshal cache snapshot", zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, pokemonListKey, payload, s.ttl); err != nil {
		s.log.Warn("cache populate failed", zap.Error(err))
	}
}

// invalidate deletes the list snapshot after a successful mutation. The
// delete happens only after the write is acknowledged by the store; if it
// fails the mutation still succeeded and the stale snapshot is bounded by
// the TTL, so the failure is logged rather than surfaced.
func (s *PokedexService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, pokemonListKey); err != nil {
		metrics.CacheInvalidations.WithLabelValues("error").Inc()
		s.log.Warn("cache invalidation failed, snapshot stale until TTL expiry", zap.Error(err))
		return
	}
	metrics.CacheInvalidations.WithLabelValues("ok").Inc()
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
