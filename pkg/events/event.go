package events

import "time"

const (
	NoteCreated      = "NOTE_CREATED"
	NoteUpdated      = "NOTE_UPDATED"
	NoteDeleted      = "NOTE_DELETED"
	FileUploadIssued = "FILE_UPLOAD_ISSUED"
)

// Event is anything that can travel over the event bus.
type Event interface {
	// EventType returns the code used as the bus subject suffix, e.g. "NOTE_CREATED".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewNoteEvent(eventType, userId, noteId, title string, at time.Time) BaseEvent {
	data := map[string]interface{}{
		"user_id": userId,
		"note_id": noteId,
	}
	if title != "" {
		data["title"] = title
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
}

func NewFileUploadEvent(userId, key string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: FileUploadIssued,
		Data: map[string]interface{}{
			"user_id": userId,
			"key":     key,
		},
		OccurredAt: at,
	}
}
