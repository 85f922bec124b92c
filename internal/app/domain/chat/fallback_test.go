package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japasea/japasea-server/internal/app/models"
)

func TestBuildFallbackResponseTravelPlan(t *testing.T) {
	resp := BuildFallbackResponse(IntentTravelPlan, "plan de 3 días", nil)

	require.NotNil(t, resp.TravelPlan)
	// The fallback always answers one day regardless of the requested count.
	assert.Equal(t, 1, resp.TravelPlan.TotalDays)
	require.Len(t, resp.TravelPlan.Days, 1)
	assert.Len(t, resp.TravelPlan.Days[0].Activities, 5)
	assert.NotEmpty(t, resp.Message)

	for _, act := range resp.TravelPlan.Days[0].Activities {
		assert.NotEmpty(t, act.Time)
		assert.NotEmpty(t, act.Place.Key)
		require.NotNil(t, act.Place.Location)
		require.NotNil(t, act.Place.Location.Lat)
		require.NotNil(t, act.Place.Location.Lng)
	}
}

func TestBuildFallbackResponseRecommendationFromSample(t *testing.T) {
	sample := []models.PlaceRecord{
		{Key: "p1", Name: "P1"},
		{Key: "p2", Name: "P2"},
		{Key: "p3", Name: "P3"},
		{Key: "p4", Name: "P4"},
	}

	resp := BuildFallbackResponse(IntentSimpleRecommendation, "donde ceno", sample)

	require.NotNil(t, resp.TravelPlan)
	require.Len(t, resp.TravelPlan.Days, 1)
	acts := resp.TravelPlan.Days[0].Activities
	assert.Len(t, acts, 3, "sample capped at three picks")
	for i, act := range acts {
		assert.Equal(t, "Recomendación", act.Category)
		assert.Equal(t, sample[i].Key, act.Place.Key)
	}
}

func TestBuildFallbackResponseRecommendationWithoutSample(t *testing.T) {
	resp := BuildFallbackResponse(IntentSimpleRecommendation, "donde ceno", nil)

	require.NotNil(t, resp.TravelPlan)
	acts := resp.TravelPlan.Days[0].Activities
	require.Len(t, acts, 3, "landmarks back an empty catalog")
	for _, act := range acts {
		assert.NotEmpty(t, act.Place.Name)
	}
}

func TestBuildFallbackResponseDeterministic(t *testing.T) {
	a := BuildFallbackResponse(IntentTravelPlan, "plan", nil)
	b := BuildFallbackResponse(IntentTravelPlan, "plan", nil)

	a.Timestamp = b.Timestamp
	assert.Equal(t, a, b)
}
