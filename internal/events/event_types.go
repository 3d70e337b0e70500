package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated EventType = "staff_created"
	EventStaffUpdated EventType = "staff_updated"
	EventStaffDeleted EventType = "staff_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffCreatedPayload payload.
type StaffCreatedPayload struct {
	Email     string  `json:"email"`
	CityID    string  `json:"city_id"`
	VillageID *string `json:"village_id,omitempty"`
}

// StaffUpdatedPayload payload.
type StaffUpdatedPayload struct {
	Fields []string `json:"fields"`
	Etag   int64    `json:"etag"`
}

// StaffDeletedPayload payload.
type StaffDeletedPayload struct {
	Email string `json:"email"`
}
