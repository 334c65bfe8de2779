package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(slog.New(slog.DiscardHandler))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, "test.topic")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := message.NewMessage(uuid.New().String(), []byte(`{"hello":"world"}`))
	if err := bus.Publish("test.topic", sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-msgs:
		if got.UUID != sent.UUID {
			t.Errorf("received UUID = %q, want %q", got.UUID, sent.UUID)
		}
		if string(got.Payload) != string(sent.Payload) {
			t.Errorf("received payload = %s, want %s", got.Payload, sent.Payload)
		}
		got.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestEventBus_SubscribeAfterClose(t *testing.T) {
	bus := NewEventBus(slog.New(slog.DiscardHandler))
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := bus.Subscribe(context.Background(), "test.topic"); err == nil {
		t.Fatal("Subscribe() after Close expected error, got nil")
	}
}
