package places

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryGetActivePlaces(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	lat, lng := -27.3317, -55.8641
	rows := pgxmock.NewRows([]string{"key", "name", "description", "category", "address", "lat", "lng"}).
		AddRow("costanera", "Costanera Padre Bolik", "Paseo costero", "Turístico", "Av. Costanera", &lat, &lng).
		AddRow("sin-coordenadas", "Lugar Nuevo", "Recién cargado", "Gastronomía", "Centro", (*float64)(nil), (*float64)(nil))

	mockPool.ExpectQuery("SELECT key, name, description, category, address, lat, lng FROM places").
		WithArgs(true).
		WillReturnRows(rows)

	records, err := repo.GetActivePlaces(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "costanera", records[0].Key)
	require.NotNil(t, records[0].Location)
	assert.InDelta(t, -27.3317, *records[0].Location.Lat, 0.0001)

	// Rows without coordinates come back locationless; normalization further
	// up the pipeline fills the city center in.
	assert.Nil(t, records[1].Location)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetActivePlacesQueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	mockPool.ExpectQuery("SELECT key, name, description, category, address, lat, lng FROM places").
		WillReturnError(assert.AnError)

	_, err = repo.GetActivePlaces(context.Background())
	require.Error(t, err)
}
