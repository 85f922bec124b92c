package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japasea/japasea-server/internal/app/models"
)

func TestNormalizePlaceTotality(t *testing.T) {
	tests := []struct {
		name  string
		input *models.PlaceRecord
	}{
		{"nil input", nil},
		{"empty record", &models.PlaceRecord{}},
		{"name only", &models.PlaceRecord{Name: "Costanera"}},
		{"key only", &models.PlaceRecord{Key: "costanera"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizePlace(tt.input)

			assert.NotEmpty(t, p.Name)
			assert.NotEmpty(t, p.Key)
			assert.NotEmpty(t, p.Description)
			assert.NotEmpty(t, p.Address)
			require.NotNil(t, p.Location)
			require.NotNil(t, p.Location.Lat)
			require.NotNil(t, p.Location.Lng)
		})
	}
}

func TestNormalizePlaceIdentityFallbacks(t *testing.T) {
	p := NormalizePlace(&models.PlaceRecord{Key: "A"})
	assert.Equal(t, "A", p.Name, "name falls back to key")
	assert.Equal(t, "A", p.Key)

	p = NormalizePlace(&models.PlaceRecord{Name: "B"})
	assert.Equal(t, "B", p.Key, "key falls back to name")

	p = NormalizePlace(&models.PlaceRecord{Title: "C"})
	assert.Equal(t, "C", p.Name, "legacy title backs both")
	assert.Equal(t, "C", p.Key)

	p = NormalizePlace(nil)
	assert.Equal(t, models.PlaceholderName, p.Name)
	assert.Equal(t, models.PlaceholderDescription, p.Description)
	assert.Equal(t, models.PlaceholderAddress, p.Address)
}

func TestNormalizePlaceCategoryFromLegacyType(t *testing.T) {
	p := NormalizePlace(&models.PlaceRecord{Name: "X", Type: "Gastronomía"})
	assert.Equal(t, "Gastronomía", p.Category)

	p = NormalizePlace(&models.PlaceRecord{Name: "X", Category: "Turístico", Type: "Gastronomía"})
	assert.Equal(t, "Turístico", p.Category, "explicit category wins")
}

func TestNormalizePlaceCoordinateFallback(t *testing.T) {
	lat := -27.0
	tests := []struct {
		name     string
		location *models.GeoPoint
	}{
		{"nil location", nil},
		{"both axes missing", &models.GeoPoint{}},
		{"one axis missing", &models.GeoPoint{Lat: &lat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizePlace(&models.PlaceRecord{Name: "X", Location: tt.location})
			require.NotNil(t, p.Location)
			require.NotNil(t, p.Location.Lat)
			require.NotNil(t, p.Location.Lng)
			assert.InDelta(t, models.EncarnacionCenterLat, *p.Location.Lat, 0.0001)
			assert.InDelta(t, models.EncarnacionCenterLng, *p.Location.Lng, 0.0001)
		})
	}
}

func TestNormalizePlaceKeepsValidCoordinates(t *testing.T) {
	lat, lng := -27.4, -55.9
	p := NormalizePlace(&models.PlaceRecord{Name: "X", Location: &models.GeoPoint{Lat: &lat, Lng: &lng}})
	assert.InDelta(t, -27.4, *p.Location.Lat, 0.0001)
	assert.InDelta(t, -55.9, *p.Location.Lng, 0.0001)
}

func TestNormalizePlaceDoesNotMutateInput(t *testing.T) {
	raw := &models.PlaceRecord{Key: "a"}
	_ = NormalizePlace(raw)
	assert.Empty(t, raw.Name)
	assert.Nil(t, raw.Location)
}

func TestNormalizeResponseStructuralMinimums(t *testing.T) {
	raw := &models.ChatResponse{
		Message: "plan",
		TravelPlan: &models.TravelPlan{
			Days: []models.TravelDay{
				{Title: "Primero", Activities: []models.Activity{{Category: "Paseo"}}},
				{Title: "Segundo"},
			},
		},
	}

	r := NormalizeResponse(raw)

	require.NotNil(t, r.TravelPlan)
	assert.Equal(t, 2, r.TravelPlan.TotalDays, "totalDays derived from day count")
	assert.Equal(t, 1, r.TravelPlan.Days[0].DayNumber)
	assert.Equal(t, 2, r.TravelPlan.Days[1].DayNumber)
	assert.False(t, r.Timestamp.IsZero())

	place := r.TravelPlan.Days[0].Activities[0].Place
	assert.Equal(t, models.PlaceholderName, place.Name)
	require.NotNil(t, place.Location)
}

func TestNormalizeResponseIdempotent(t *testing.T) {
	raw := &models.ChatResponse{
		Message: "recs",
		Places:  []models.PlaceRecord{{Key: "a"}, {Title: "B"}},
	}

	once := NormalizeResponse(raw)
	twice := NormalizeResponse(&once)

	assert.Equal(t, once, twice)
}

func TestNormalizeResponseNilAndEmpty(t *testing.T) {
	r := NormalizeResponse(nil)
	assert.False(t, r.Timestamp.IsZero())
	assert.Nil(t, r.TravelPlan)
	assert.Empty(t, r.Places)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r = NormalizeResponse(&models.ChatResponse{Timestamp: ts})
	assert.Equal(t, ts, r.Timestamp, "existing timestamp preserved")
}
