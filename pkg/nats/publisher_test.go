package nats

import (
	"testing"
	"time"

	"cloudnotes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	evt := events.NewNoteEvent(events.NoteUpdated, "u1", "n1", "", time.Now())
	assert.Equal(t, "events.NOTE_UPDATED", Subject(evt))
}

func TestEncodeUsesPayloadOnly(t *testing.T) {
	evt := events.NewNoteEvent(events.NoteCreated, "u1", "n1", "T", time.Now())

	data, err := Encode(evt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u1","note_id":"n1","title":"T"}`, string(data))
}

func TestEncodeRejectsUnmarshalablePayload(t *testing.T) {
	evt := events.BaseEvent{Type: "X", Data: map[string]interface{}{"ch": make(chan int)}}

	_, err := Encode(evt)
	assert.Error(t, err)
}
