package giveawayrouter

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/glowmart/discord-giveaway-bot/app/eventbus"
	giveawayevents "github.com/glowmart/discord-giveaway-bot/app/events/giveaway"
	"github.com/glowmart/discord-giveaway-bot/app/shared/utils"
)

type recordingHandlers struct {
	helper    utils.Helpers
	expired   chan string
	finalized chan string
}

func (h *recordingHandlers) HandleGiveawayExpired(msg *message.Message) ([]*message.Message, error) {
	var payload giveawayevents.GiveawayExpiredPayload
	if err := h.helper.UnmarshalPayload(msg, &payload); err != nil {
		return nil, nil
	}
	h.expired <- payload.MessageID

	out, err := h.helper.CreateResultMessage(msg, giveawayevents.GiveawayFinalizedPayload{
		MessageID: payload.MessageID,
		Reason:    giveawayevents.FinalizeReasonWinnersDrawn,
	}, giveawayevents.GiveawayFinalizedTopic)
	if err != nil {
		return nil, nil
	}
	return []*message.Message{out}, nil
}

func (h *recordingHandlers) HandleGiveawayCreated(msg *message.Message) ([]*message.Message, error) {
	return nil, nil
}

func (h *recordingHandlers) HandleGiveawayFinalized(msg *message.Message) ([]*message.Message, error) {
	var payload giveawayevents.GiveawayFinalizedPayload
	if err := h.helper.UnmarshalPayload(msg, &payload); err != nil {
		return nil, nil
	}
	h.finalized <- payload.MessageID
	return nil, nil
}

func TestGiveawayRouter_ExpiredFlowsThroughToFinalized(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.NewEventBus(logger)
	t.Cleanup(func() { bus.Close() })

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	helper := utils.NewHelper(logger)
	handlers := &recordingHandlers{
		helper:    helper,
		expired:   make(chan string, 1),
		finalized: make(chan string, 1),
	}

	router := NewGiveawayRouter(logger, wmRouter, bus, bus)
	if err := router.Configure(context.Background(), handlers); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = router.Router.Run(ctx)
	}()
	<-router.Router.Running()

	msg, err := helper.CreateNewMessage(giveawayevents.GiveawayExpiredPayload{
		MessageID: "msg-1",
		Prize:     "Mystery Box",
	}, giveawayevents.GiveawayExpiredTopic)
	if err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(giveawayevents.GiveawayExpiredTopic, msg); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-handlers.expired:
		if got != "msg-1" {
			t.Errorf("expired handler got %q, want msg-1", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expired handler never ran")
	}

	select {
	case got := <-handlers.finalized:
		if got != "msg-1" {
			t.Errorf("finalized handler got %q, want msg-1", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("finalized audit event never arrived")
	}
}
