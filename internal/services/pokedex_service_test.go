package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nikhil00shinde/pokemon-api/internal/cache"
	"github.com/nikhil00shinde/pokemon-api/internal/database/testutil"
	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
	"github.com/nikhil00shinde/pokemon-api/pkg/validator"
)

func newTestService(t *testing.T, ttl time.Duration) (*PokedexService, *gorm.DB) {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewPokedexService(db, cache.NewDatabaseStore(db), ttl)
	require.NoError(t, err)
	return svc, db
}

func intPtr(v int) *int { return &v }

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePokemonInput{Name: "Squirtle", Type: "Water", Level: intPtr(5)})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CaughtAt.IsZero(), "caught_at is assigned by the store")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Squirtle", got.Name)
	require.Equal(t, "Water", got.Type)
	require.Equal(t, 5, got.Level)
}

func TestCreateDefaultsLevelToOne(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)

	created, err := svc.Create(context.Background(), CreatePokemonInput{Name: "Magikarp", Type: "Water"})
	require.NoError(t, err)
	require.Equal(t, 1, created.Level)
}

func TestCreateValidationBoundaries(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	for _, level := range []int{0, 101, -3} {
		_, err := svc.Create(ctx, CreatePokemonInput{Name: "Onix", Type: "Rock", Level: intPtr(level)})
		require.Error(t, err, "level %d must be rejected", level)

		var failures validator.ValidationErrors
		require.True(t, errors.As(err, &failures))
	}

	for _, level := range []int{1, 100} {
		created, err := svc.Create(ctx, CreatePokemonInput{Name: "Onix", Type: "Rock", Level: intPtr(level)})
		require.NoError(t, err, "level %d must be accepted", level)
		require.Equal(t, level, created.Level)
	}
}

func TestCreateRejectsMissingFieldsBeforeIO(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePokemonInput{Type: "Grass"})
	require.Error(t, err)
	_, err = svc.Create(ctx, CreatePokemonInput{Name: "Bulbasaur"})
	require.Error(t, err)
	_, err = svc.Create(ctx, CreatePokemonInput{Name: "   ", Type: "Grass"})
	require.Error(t, err, "whitespace-only name is missing")

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count, "validation failures must not touch the store")
}

func TestListProvenanceAndInvalidation(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePokemonInput{Name: "Squirtle", Type: "Water", Level: intPtr(5)})
	require.NoError(t, err)

	cold, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, cold.Source)
	require.Equal(t, 1, cold.Total)

	warm, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceCache, warm.Source)
	require.Equal(t, cold.Total, warm.Total)
	require.Equal(t, cold.Data[0].ID, warm.Data[0].ID)
	require.Equal(t, cold.Data[0].Name, warm.Data[0].Name)
	require.Equal(t, cold.Data[0].Level, warm.Data[0].Level)
	require.True(t, cold.Data[0].CaughtAt.Equal(warm.Data[0].CaughtAt))

	updated, err := svc.UpdateLevel(ctx, created.ID, 100)
	require.NoError(t, err)
	require.Equal(t, 100, updated.Level)

	afterUpdate, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, afterUpdate.Source, "mutation must invalidate the snapshot")
	require.Equal(t, 100, afterUpdate.Data[0].Level)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	afterDelete, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, afterDelete.Source)
	require.Zero(t, afterDelete.Total)
}

func TestListTTLBound(t *testing.T) {
	svc, _ := newTestService(t, 20*time.Millisecond)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePokemonInput{Name: "Snorlax", Type: "Normal"})
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, first.Source)

	time.Sleep(40 * time.Millisecond)

	expired, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, expired.Source, "expired snapshot must not be served as a hit")
}

func TestListOrdersByCaughtAtDescending(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePokemonInput{Name: "Older", Type: "Normal"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Create(ctx, CreatePokemonInput{Name: "Newer", Type: "Normal"})
	require.NoError(t, err)

	result, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Newer", result.Data[0].Name)
	require.Equal(t, "Older", result.Data[1].Name)
}

func TestNotFoundBoundaries(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, 9999)
	require.ErrorIs(t, err, ErrPokemonNotFound)

	_, err = svc.UpdateLevel(ctx, 9999, 50)
	require.ErrorIs(t, err, ErrPokemonNotFound)

	_, err = svc.Delete(ctx, 9999)
	require.ErrorIs(t, err, ErrPokemonNotFound)
}

func TestUpdateLevelValidatesBeforeLookup(t *testing.T) {
	svc, _ := newTestService(t, time.Minute)

	_, err := svc.UpdateLevel(context.Background(), 1, 0)
	appErr := apperrors.FromError(err)
	require.Equal(t, apperrors.ErrBadRequest.Code, appErr.Code)

	_, err = svc.UpdateLevel(context.Background(), 1, 101)
	require.Error(t, err)
}

// brokenStore simulates an unreachable cache backend.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache: connection refused")
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache: connection refused")
}
func (brokenStore) Delete(context.Context, ...string) error {
	return errors.New("cache: connection refused")
}
func (brokenStore) IncrementWithTTL(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("cache: connection refused")
}
func (brokenStore) Ping(context.Context) error {
	return errors.New("cache: connection refused")
}

func TestCacheFailOpen(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewPokedexService(db, brokenStore{}, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePokemonInput{Name: "Gastly", Type: "Ghost"})
	require.NoError(t, err, "failed invalidation must not fail the mutation")

	result, err := svc.List(ctx)
	require.NoError(t, err, "cache failure must not make reads unavailable")
	require.Equal(t, SourceDatabase, result.Source)
	require.Equal(t, 1, result.Total)

	_, err = svc.UpdateLevel(ctx, created.ID, 42)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
}

func TestCorruptSnapshotTreatedAsMiss(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := cache.NewDatabaseStore(db)
	svc, err := NewPokedexService(db, store, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "pokemon:list", []byte("{not json"), time.Minute))

	result, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, result.Source)
}

func TestNilCacheStoreReadsFromDatabase(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewPokedexService(db, nil, time.Minute)
	require.NoError(t, err)

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, SourceDatabase, result.Source)
}

func TestNewPokedexServiceRequiresDB(t *testing.T) {
	_, err := NewPokedexService(nil, nil, time.Minute)
	require.Error(t, err)
}
