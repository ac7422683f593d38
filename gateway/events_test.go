package gateway

import (
	"fmt"
	"testing"

	"market-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Run("accepts every known event", func(t *testing.T) {
		req := require.New(t)
		for _, name := range []string{
			EventSendMessage, EventMessageRead, EventTyping, EventStopTyping, EventGetOnlineUsers,
		} {
			env, err := DecodeEnvelope([]byte(`{"event":"` + name + `","data":{}}`))
			req.NoError(err)
			req.Equal(name, env.Event)
		}
	})

	t.Run("rejects unknown events", func(t *testing.T) {
		req := require.New(t)

		_, err := DecodeEnvelope([]byte(`{"event":"dropTables","data":{}}`))

		req.Error(err)
	})

	t.Run("rejects frames without an event", func(t *testing.T) {
		req := require.New(t)

		_, err := DecodeEnvelope([]byte(`{"data":{}}`))

		req.Error(err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := require.New(t)

		_, err := DecodeEnvelope([]byte(`{"event":`))

		req.Error(err)
	})
}

func TestDecodePayload_SendMessage(t *testing.T) {
	req := require.New(t)
	env, err := DecodeEnvelope([]byte(`{
		"event": "sendMessage",
		"data": {
			"receiverId": "bob",
			"content": "is the bike still available?",
			"location": {"lat": 48.85, "lng": 2.35, "address": "Paris"}
		}
	}`))
	req.NoError(err)

	payload, err := decodePayload[SendMessagePayload](env)

	req.NoError(err)
	req.Equal("bob", payload.ReceiverID)
	location := payload.location()
	req.NotNil(location)
	req.Equal("Paris", location.Address)
}

func TestDecodePayload_Rejects_Missing_Fields(t *testing.T) {
	req := require.New(t)
	env, err := DecodeEnvelope([]byte(`{"event":"sendMessage","data":{"content":"hi"}}`))
	req.NoError(err)

	_, err = decodePayload[SendMessagePayload](env)

	req.Error(err)
}

func TestDecodePayload_Rejects_Out_Of_Range_Location(t *testing.T) {
	req := require.New(t)
	env, err := DecodeEnvelope([]byte(`{
		"event": "sendMessage",
		"data": {"receiverId": "bob", "content": "hi", "location": {"lat": 123.0, "lng": 0}}
	}`))
	req.NoError(err)

	_, err = decodePayload[SendMessagePayload](env)

	req.Error(err)
}

func TestToErrorEvent(t *testing.T) {
	req := require.New(t)

	// Validation failures keep their message
	req.Equal(errors.ErrBlocked.Error(), toErrorEvent(errors.ErrBlocked).Message)
	req.Equal(errors.ErrSelfMessage.Error(), toErrorEvent(errors.ErrSelfMessage).Message)
	req.Equal(errors.ErrReceiverNotFound.Error(), toErrorEvent(errors.ErrReceiverNotFound).Message)

	// Wrapped sentinels still match
	wrapped := fmt.Errorf("relay: %w", errors.ErrAdNotFound)
	req.Equal(errors.ErrAdNotFound.Error(), toErrorEvent(wrapped).Message)

	// Internals never leak
	req.Equal(errors.ErrSendFailed.Error(), toErrorEvent(fmt.Errorf("badger: disk full")).Message)
}
