package chat

import (
	"time"

	"github.com/japasea/japasea-server/internal/app/models"
)

// The fallback generator answers from local data alone when the model's
// output cannot be parsed. It never fails and never touches the network.

func geo(lat, lng float64) *models.GeoPoint {
	return &models.GeoPoint{Lat: &lat, Lng: &lng}
}

// landmarkActivities is the hand-authored one-day classic: breakfast through
// dinner across Encarnación landmarks.
func landmarkActivities() []models.Activity {
	return []models.Activity{
		{
			Time:     "08:00",
			Category: "Gastronomía",
			Place: models.PlaceRecord{
				Key:         "mercado-municipal-abasto",
				Name:        "Mercado Municipal de Abasto",
				Description: "Desayuno con chipa y cocido en el mercado tradicional de la ciudad.",
				Category:    "Gastronomía",
				Address:     "Gral. Artigas esq. Tte. Honorio González, Encarnación",
				Location:    geo(-27.3296, -55.8705),
			},
		},
		{
			Time:     "10:00",
			Category: "Turístico",
			Place: models.PlaceRecord{
				Key:         "costanera-padre-bolik",
				Name:        "Costanera Padre Bolik",
				Description: "Paseo por la costanera con vista al río Paraná y a Posadas.",
				Category:    "Turístico",
				Address:     "Av. Costanera, Encarnación",
				Location:    geo(-27.3317, -55.8641),
			},
		},
		{
			Time:     "12:30",
			Category: "Gastronomía",
			Place: models.PlaceRecord{
				Key:         "paseo-gastronomico-san-jose",
				Name:        "Paseo Gastronómico San José",
				Description: "Almuerzo frente a la playa: pescados de río y cocina paraguaya.",
				Category:    "Gastronomía",
				Address:     "Av. Costanera y San José, Encarnación",
				Location:    geo(-27.3259, -55.8672),
			},
		},
		{
			Time:     "15:30",
			Category: "Turístico",
			Place: models.PlaceRecord{
				Key:         "playa-san-jose",
				Name:        "Playa San José",
				Description: "Tarde de playa sobre el río Paraná, la más concurrida de la ciudad.",
				Category:    "Turístico",
				Address:     "Playa San José, Encarnación",
				Location:    geo(-27.3244, -55.8660),
			},
		},
		{
			Time:     "20:00",
			Category: "Gastronomía",
			Place: models.PlaceRecord{
				Key:         "plaza-de-armas",
				Name:        "Plaza de Armas",
				Description: "Cena en los alrededores de la plaza central y paseo nocturno.",
				Category:    "Gastronomía",
				Address:     "Plaza de Armas, Encarnación",
				Location:    geo(-27.3333, -55.8729),
			},
		},
	}
}

// BuildFallbackResponse synthesizes a minimal valid ChatResponse from local
// data. The travel-plan variant always answers a single day even when the
// message asked for more; callers have come to rely on that, so it stays
// until the API versioning allows changing it.
func BuildFallbackResponse(intent Intent, message string, sample []models.PlaceRecord) models.ChatResponse {
	if intent == IntentTravelPlan {
		return models.ChatResponse{
			Message: "No pude generar un plan personalizado en este momento, así que te dejo un recorrido clásico por Encarnación para un día.",
			TravelPlan: &models.TravelPlan{
				TotalDays: 1,
				Days: []models.TravelDay{
					{
						DayNumber:  1,
						Title:      "Día 1: Lo imprescindible de Encarnación",
						Activities: landmarkActivities(),
					},
				},
			},
			Timestamp: time.Now().UTC(),
		}
	}

	picks := sample
	if len(picks) > 3 {
		picks = picks[:3]
	}
	if len(picks) == 0 {
		landmarks := landmarkActivities()
		picks = []models.PlaceRecord{landmarks[1].Place, landmarks[3].Place, landmarks[4].Place}
	}

	activities := make([]models.Activity, len(picks))
	for i, p := range picks {
		activities[i] = models.Activity{Category: "Recomendación", Place: p}
	}

	return models.ChatResponse{
		Message: "Te dejo algunas opciones de nuestro catálogo local que pueden servirte.",
		TravelPlan: &models.TravelPlan{
			TotalDays: 1,
			Days: []models.TravelDay{
				{
					DayNumber:  1,
					Title:      "Recomendaciones",
					Activities: activities,
				},
			},
		},
		Timestamp: time.Now().UTC(),
	}
}
