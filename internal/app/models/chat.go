package models

import (
	"time"

	"github.com/google/uuid"
)

// Message senders for persisted chat turns.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatRequest is the inbound body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	Context   string `json:"context,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Activity is one scheduled stop inside a travel-plan day.
type Activity struct {
	Time     string      `json:"time,omitempty"` // "HH:MM"
	Category string      `json:"category"`
	Place    PlaceRecord `json:"place"`
}

// TravelDay groups the activities of a single day.
type TravelDay struct {
	DayNumber  int        `json:"dayNumber"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// TravelPlan is a multi-day itinerary.
type TravelPlan struct {
	TotalDays int         `json:"totalDays"`
	Days      []TravelDay `json:"days"`
}

// ChatResponse is the canonical output of the chat pipeline. Travel-plan
// requests populate TravelPlan; simple recommendations populate Places.
type ChatResponse struct {
	Message    string        `json:"message"`
	Places     []PlaceRecord `json:"places,omitempty"`
	TravelPlan *TravelPlan   `json:"travelPlan,omitempty"`
	SessionID  string        `json:"sessionId,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ChatMessage is one persisted conversation turn. Bot turns carry the
// normalized ChatResponse they answered with.
type ChatMessage struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	SessionID string        `json:"sessionId"`
	Sender    string        `json:"sender"`
	Text      string        `json:"text"`
	Context   string        `json:"context,omitempty"`
	Response  *ChatResponse `json:"response,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}
