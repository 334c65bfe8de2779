// Package utils holds the Watermill message plumbing shared by interaction
// managers, the sweeper, and the event handlers.
package utils

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

// Helpers builds and unpacks event messages with consistent metadata.
type Helpers interface {
	// CreateNewMessage starts a new correlation chain for the given payload.
	CreateNewMessage(payload any, topic string) (*message.Message, error)
	// CreateResultMessage derives a message from an inbound one, carrying the
	// correlation ID forward.
	CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error)
	// UnmarshalPayload decodes a message payload into target.
	UnmarshalPayload(msg *message.Message, target any) error
}

type helper struct {
	logger *slog.Logger
}

// NewHelper creates a Helpers implementation.
func NewHelper(logger *slog.Logger) Helpers {
	return &helper{logger: logger}
}

func (h *helper) CreateNewMessage(payload any, topic string) (*message.Message, error) {
	msg, err := h.newMessage(payload, topic)
	if err != nil {
		return nil, err
	}
	middleware.SetCorrelationID(uuid.New().String(), msg)
	return msg, nil
}

func (h *helper) CreateResultMessage(original *message.Message, payload any, topic string) (*message.Message, error) {
	msg, err := h.newMessage(payload, topic)
	if err != nil {
		return nil, err
	}

	correlationID := ""
	if original != nil {
		correlationID = middleware.MessageCorrelationID(original)
		msg.Metadata.Set("caused_by", original.UUID)
	}
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

func (h *helper) UnmarshalPayload(msg *message.Message, target any) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload for message %s: %w", msg.UUID, err)
	}
	return nil
}

func (h *helper) newMessage(payload any, topic string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}
	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set("topic", topic)
	return msg, nil
}
