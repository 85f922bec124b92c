package chat

import (
	"time"

	"github.com/japasea/japasea-server/internal/app/models"
)

// NormalizePlace repairs a partially-shaped place into the canonical record.
// Total and pure: any input, including nil, yields a record whose name, key,
// description, address and numeric location are populated. Identity falls
// back across name/key/title before the placeholder; category derives from
// the legacy type field; coordinates fall back to the city center when
// either axis is missing.
func NormalizePlace(raw *models.PlaceRecord) models.PlaceRecord {
	var p models.PlaceRecord
	if raw != nil {
		p = *raw
	}

	name := firstNonEmpty(p.Name, p.Key, p.Title, models.PlaceholderName)
	key := firstNonEmpty(p.Key, p.Name, p.Title, models.PlaceholderName)
	p.Name = name
	p.Key = key

	if p.Description == "" {
		p.Description = models.PlaceholderDescription
	}
	if p.Address == "" {
		p.Address = models.PlaceholderAddress
	}
	if p.Category == "" {
		p.Category = p.Type
	}

	if p.Location != nil && p.Location.Lat != nil && p.Location.Lng != nil {
		lat, lng := *p.Location.Lat, *p.Location.Lng
		p.Location = &models.GeoPoint{Lat: &lat, Lng: &lng}
	} else {
		lat, lng := models.EncarnacionCenterLat, models.EncarnacionCenterLng
		p.Location = &models.GeoPoint{Lat: &lat, Lng: &lng}
	}

	return p
}

// NormalizeResponse applies NormalizePlace to every place in the response:
// the flat places list and each nested travel-plan activity. Everything else
// passes through unchanged, except structural minimums (totalDays and
// dayNumber at least 1) and a timestamp when none is set. Idempotent.
func NormalizeResponse(raw *models.ChatResponse) models.ChatResponse {
	var r models.ChatResponse
	if raw != nil {
		r = *raw
	}

	if len(r.Places) > 0 {
		places := make([]models.PlaceRecord, len(r.Places))
		for i := range r.Places {
			places[i] = NormalizePlace(&r.Places[i])
		}
		r.Places = places
	}

	if r.TravelPlan != nil {
		plan := models.TravelPlan{TotalDays: r.TravelPlan.TotalDays}
		plan.Days = make([]models.TravelDay, len(r.TravelPlan.Days))
		for i, day := range r.TravelPlan.Days {
			normalized := models.TravelDay{
				DayNumber: day.DayNumber,
				Title:     day.Title,
			}
			if normalized.DayNumber < 1 {
				normalized.DayNumber = i + 1
			}
			normalized.Activities = make([]models.Activity, len(day.Activities))
			for j, act := range day.Activities {
				normalized.Activities[j] = models.Activity{
					Time:     act.Time,
					Category: act.Category,
					Place:    NormalizePlace(&act.Place),
				}
			}
			plan.Days[i] = normalized
		}
		if plan.TotalDays < 1 {
			plan.TotalDays = len(plan.Days)
			if plan.TotalDays < 1 {
				plan.TotalDays = 1
			}
		}
		r.TravelPlan = &plan
	}

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
