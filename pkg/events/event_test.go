package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNoteEvent(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("with title", func(t *testing.T) {
		evt := NewNoteEvent(NoteCreated, "u1", "n1", "Groceries", at)
		assert.Equal(t, "NOTE_CREATED", evt.EventType())
		assert.Equal(t, at, evt.Timestamp())
		assert.Equal(t, map[string]interface{}{"user_id": "u1", "note_id": "n1", "title": "Groceries"}, evt.Payload())
	})

	t.Run("delete carries no title", func(t *testing.T) {
		evt := NewNoteEvent(NoteDeleted, "u1", "n1", "", at)
		assert.NotContains(t, evt.Payload(), "title")
	})
}

func TestNewFileUploadEvent(t *testing.T) {
	evt := NewFileUploadEvent("u1", "u1/1_a.png", time.Now())
	assert.Equal(t, FileUploadIssued, evt.EventType())
	assert.Equal(t, "u1/1_a.png", evt.Payload()["key"])
}
