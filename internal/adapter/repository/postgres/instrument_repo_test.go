package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

func TestInstrumentRepository_ResolveNames(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInstrumentRepository(db)

	names := []string{"Acme Corp", "Gov Bond 10Y", "Unknown Fund"}
	mock.ExpectQuery("SELECT id, name\\s+FROM asset_master\\s+WHERE name = ANY").
		WithArgs(pq.Array(names)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Acme Corp").
			AddRow(int64(2), "Gov Bond 10Y"))

	ids, err := repo.ResolveNames(context.Background(), names)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Acme Corp": 1, "Gov Bond 10Y": 2}, ids)
	_, found := ids["Unknown Fund"]
	assert.False(t, found, "unresolved names must be absent from the map")
}

func TestInstrumentRepository_ResolveNames_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewInstrumentRepository(db)

	ids, err := repo.ResolveNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInstrumentRepository_ResolveNames_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInstrumentRepository(db)

	mock.ExpectQuery("FROM asset_master").WillReturnError(errors.New("connection reset"))

	_, err := repo.ResolveNames(context.Background(), []string{"Acme Corp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve instrument names")
}

func TestInstrumentRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInstrumentRepository(db)

	mock.ExpectQuery("INSERT INTO asset_master").
		WithArgs("Acme Corp", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	instrument := &domain.Instrument{Name: "Acme Corp", CategoryID: 1}
	require.NoError(t, repo.Upsert(context.Background(), instrument))
	assert.Equal(t, int64(42), instrument.ID)
}
