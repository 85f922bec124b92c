package chat

import (
	"encoding/json"
	"fmt"

	"github.com/japasea/japasea-server/internal/app/models"
)

// Prompt templates are data: the grounding block and output contracts live in
// constants so tests can check required placeholders without re-deriving the
// whole prompt.

// cityContext grounds the model in local knowledge so it stops inventing
// places from other cities.
const cityContext = `Eres Japasea, el asistente turístico de Encarnación, departamento de Itapúa, Paraguay ("La Perla del Sur").
La ciudad está frente a Posadas (Argentina), cruzando el río Paraná por el puente San Roque González de Santa Cruz.
Referencias locales: la Costanera Padre Bolik, la Playa San José, la Plaza de Armas, el Sambódromo y el carnaval encarnaceno.
Coordenada de referencia del centro: lat -27.3309, lng -55.8663.`

// placeContract describes the JSON shape of one place so the model's output
// parses directly without a repair round-trip.
const placeContract = `Cada lugar ("place") debe tener exactamente estos campos:
"key" (identificador corto), "name", "type" (ej. "Gastronomía", "Turístico"), "description", "address",
"location": {"lat": número, "lng": número}.`

const travelPlanTemplate = cityContext + `

CATÁLOGO LOCAL (usá estos lugares cuando apliquen; podés completar con negocios locales reales):
%s

CONVERSACIÓN PREVIA:
%s

MENSAJE DEL USUARIO:
%s

El usuario pide un itinerario de viaje. Cantidad de días detectada: %d (si el mensaje indica otra cantidad, respetá el mensaje; si no dice nada, usá 1).

Armá un plan agrupando lugares geográficamente cercanos en el mismo día y con una secuencia horaria plausible:
desayuno, paseo, almuerzo, paseo, cena (o equivalente). Usá nombres de negocios locales realistas.

Respondé SOLO con JSON válido, sin texto adicional ni bloques markdown, con esta forma exacta:
{
  "message": "resumen del plan",
  "travelPlan": {
    "totalDays": número,
    "days": [
      {
        "dayNumber": número,
        "title": "título del día",
        "activities": [
          {"time": "HH:MM", "category": "categoría", "place": { ... }}
        ]
      }
    ]
  }
}
` + placeContract

const recommendationTemplate = cityContext + `

CATÁLOGO LOCAL (priorizá estos lugares si responden a la consulta):
%s

CONVERSACIÓN PREVIA:
%s

MENSAJE DEL USUARIO:
%s

El usuario pide una recomendación puntual. Elegí exactamente 3 o 4 lugares directamente relevantes a la consulta.
El campo "message" debe resumir la recomendación en menos de 80 palabras.

Respondé SOLO con JSON válido, sin texto adicional ni bloques markdown, con esta forma exacta:
{
  "message": "resumen corto",
  "travelPlan": {
    "totalDays": 1,
    "days": [
      {
        "dayNumber": 1,
        "title": "Recomendaciones",
        "activities": [
          {"category": "Recomendación", "place": { ... }}
        ]
      }
    ]
  }
}
` + placeContract

// BuildPrompt assembles the instruction block for the generative model. The
// catalog sample should already be capped at catalogSampleLimit entries.
func BuildPrompt(intent Intent, message, conversationContext string, sample []models.PlaceRecord) string {
	sampleJSON, err := json.Marshal(sample)
	if err != nil || len(sample) == 0 {
		sampleJSON = []byte("[]")
	}
	if conversationContext == "" {
		conversationContext = "(sin conversación previa)"
	}

	if intent == IntentTravelPlan {
		return fmt.Sprintf(travelPlanTemplate, sampleJSON, conversationContext, message, DetectDayCount(message))
	}
	return fmt.Sprintf(recommendationTemplate, sampleJSON, conversationContext, message)
}
