package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type channelForwarder struct {
	mu       sync.Mutex
	received []events.Event
	err      error
	done     chan struct{}
}

func (f *channelForwarder) Publish(_ context.Context, evt events.Event) error {
	f.mu.Lock()
	f.received = append(f.received, evt)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func TestEventsReachForwarder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := newPubSub(t)
	forwarder := &channelForwarder{done: make(chan struct{}, 1)}

	consumer := NewConsumerService(pubSub, "note-events", forwarder, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("note-events", pubSub)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Publish(ctx, events.NewNoteEvent(events.NoteCreated, "me", "n1", "T", at)))

	select {
	case <-forwarder.done:
	case <-time.After(5 * time.Second):
		t.Fatal("event was not forwarded")
	}

	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	require.Len(t, forwarder.received, 1)
	got := forwarder.received[0]
	assert.Equal(t, events.NoteCreated, got.EventType())
	assert.Equal(t, "n1", got.Payload()["note_id"])
	assert.True(t, at.Equal(got.Timestamp()))
}

func TestForwardFailureIsOnlyLogged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zapcore.DebugLevel)
	pubSub := newPubSub(t)
	forwarder := &channelForwarder{done: make(chan struct{}, 2), err: errors.New("nats down")}

	consumer := NewConsumerService(pubSub, "note-events", forwarder, logger.NewFromZap(zap.New(core)))
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("note-events", pubSub)
	for i := 0; i < 2; i++ {
		require.NoError(t, publisher.Publish(ctx, events.NewNoteEvent(events.NoteDeleted, "me", "n1", "", time.Now())))
		select {
		case <-forwarder.done:
		case <-time.After(5 * time.Second):
			t.Fatal("event was not forwarded")
		}
	}

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Failed to forward event").Len() == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConsumerWithoutForwarderAcks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zapcore.DebugLevel)
	pubSub := newPubSub(t)

	consumer := NewConsumerService(pubSub, "note-events", nil, logger.NewFromZap(zap.New(core)))
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("note-events", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.NewFileUploadEvent("me", "me/1_a", time.Now())))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Note event received").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
}
