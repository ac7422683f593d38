package gateway

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"market-chat/domain"
	"market-chat/domain/event"
	"market-chat/errors"

	"github.com/go-playground/validator/v10"
)

// Inbound event names form a closed set; anything else is rejected at the
// boundary before reaching the relay logic.
const (
	EventSendMessage    = "sendMessage"
	EventMessageRead    = "messageRead"
	EventTyping         = "typing"
	EventStopTyping     = "stopTyping"
	EventGetOnlineUsers = "getOnlineUsers"
)

var validate = validator.New()

// Envelope is the tagged wire form of every inbound client frame.
type Envelope struct {
	Event string          `json:"event" validate:"required,oneof=sendMessage messageRead typing stopTyping getOnlineUsers"`
	Data  json.RawMessage `json:"data"`
}

type SendMessagePayload struct {
	ReceiverID string           `json:"receiverId" validate:"required"`
	Content    string           `json:"content" validate:"required"`
	AdID       string           `json:"adId" validate:"omitempty"`
	ImageURL   string           `json:"imageUrl" validate:"omitempty,url"`
	Location   *LocationPayload `json:"location" validate:"omitempty"`
}

type LocationPayload struct {
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lng     float64 `json:"lng" validate:"min=-180,max=180"`
	Address string  `json:"address"`
}

type MessageReadPayload struct {
	MessageID string `json:"messageId" validate:"required"`
}

type TypingPayload struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

// DecodeEnvelope parses and validates a raw client frame.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed frame: %w", err)
	}
	if err := validate.Struct(env); err != nil {
		return Envelope{}, fmt.Errorf("unknown event: %w", err)
	}
	return env, nil
}

// decodePayload unmarshals and validates the typed payload of an envelope.
func decodePayload[T any](env Envelope) (T, error) {
	var payload T
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return payload, fmt.Errorf("malformed %s payload: %w", env.Event, err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("invalid %s payload: %w", env.Event, err)
	}
	return payload, nil
}

func (p SendMessagePayload) location() *domain.Location {
	if p.Location == nil {
		return nil
	}
	return &domain.Location{Lat: p.Location.Lat, Lng: p.Location.Lng, Address: p.Location.Address}
}

// toErrorEvent maps a failure to the error event pushed back to the
// originating connection. Validation failures keep their message;
// anything else (storage down, encoding bugs) degrades to the generic
// send error so internals never leak to clients.
func toErrorEvent(err error) event.Error {
	for _, known := range []error{
		errors.ErrReceiverNotFound,
		errors.ErrSelfMessage,
		errors.ErrBlocked,
		errors.ErrAdNotFound,
		errors.ErrEmptyContent,
		errors.ErrMessageNotFound,
		errors.ErrNotReceiver,
	} {
		if stderrors.Is(err, known) {
			return event.Error{Message: known.Error()}
		}
	}
	return event.Error{Message: errors.ErrSendFailed.Error()}
}
