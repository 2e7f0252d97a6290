package dto

import "time"

// EventMessage is the payload carried on the in-process event bus.
type EventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
