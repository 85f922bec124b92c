package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Encarnación city center, used when a place arrives without usable coordinates.
const (
	EncarnacionCenterLat = -27.3309
	EncarnacionCenterLng = -55.8663
)

// Placeholder literals applied by normalization when a field is missing.
const (
	PlaceholderName        = "Lugar por definir"
	PlaceholderDescription = "Descripción no disponible"
	PlaceholderAddress     = "Dirección por confirmar"
)

// GeoPoint is a WGS84 coordinate pair. Lat/Lng are pointers so that a missing
// or unparseable coordinate is distinguishable from 0,0.
type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// UnmarshalJSON tolerates coordinates sent as numbers or as numeric strings.
// Anything else leaves the field nil; it never returns an error so a single
// bad coordinate cannot fail the whole response parse.
func (g *GeoPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	g.Lat = parseCoordinate(raw["lat"])
	g.Lng = parseCoordinate(raw["lng"])
	return nil
}

func parseCoordinate(data json.RawMessage) *float64 {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// PlaceRecord is a point of interest in Encarnación. Source records (local
// catalog rows as well as model output) may carry the identifier under key,
// name or title and the classification under type or category; normalization
// guarantees key, name, category, description, address and location are all
// populated before a record leaves the service.
type PlaceRecord struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"` // legacy identifier alias
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type,omitempty"` // legacy category alias
	Address     string    `json:"address"`
	Location    *GeoPoint `json:"location"`
}
