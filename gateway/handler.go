// Package gateway is the transport edge of the messaging core: websocket
// connection lifecycle, inbound event decoding and the REST fetch surface
// used to recover messages that missed a real-time push.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"market-chat/domain"
	"market-chat/domain/event"
	"market-chat/services"

	"market-chat/auth"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type wireFrame struct {
	Event string            `json:"event"`
	Data  event.DomainEvent `json:"data"`
}

// Timeouts of the read/write pumps.
type ConnConfig struct {
	BufferSize  int
	SinkTimeout time.Duration
	WriteWait   time.Duration
	PongWait    time.Duration
	PingPeriod  time.Duration
	ReadLimit   int64
}

type Handler struct {
	log      *slog.Logger
	tokens   *auth.TokenManager
	presence services.IPresenceService
	messages services.IMessageService
	cfg      ConnConfig
}

func NewHandler(log *slog.Logger, tokens *auth.TokenManager,
	presence services.IPresenceService, messages services.IMessageService,
	cfg ConnConfig) *Handler {
	return &Handler{log: log, tokens: tokens, presence: presence, messages: messages, cfg: cfg}
}

// Handle owns the whole lifecycle of one websocket connection: handshake
// check, registration, read pump (blocking) and write pump (goroutine),
// deferred unregistration. A failed handshake closes the socket without a
// structured error event, since the connection never completes.
func (h *Handler) Handle(conn *websocket.Conn) {
	userID := conn.Query("userId")
	token := conn.Query("token")
	if userID == "" || token == "" {
		h.log.Warn("Handshake rejected: missing credentials")
		_ = conn.Close()
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil || claims.UserID != userID {
		h.log.Warn("Handshake rejected: invalid token", "user_id", userID)
		_ = conn.Close()
		return
	}

	connectionID := uuid.NewString()
	sink := NewSink(h.cfg.BufferSize, h.cfg.SinkTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go h.writePump(conn, sink, done)

	h.presence.Connect(ctx, userID, connectionID, sink)
	defer h.presence.Disconnect(ctx, userID, connectionID)

	// Blocks until the client goes away, then releases the write pump
	h.readPump(ctx, conn, userID, sink)
	close(done)
}

// readPump decodes inbound frames and dispatches them. Every handler runs
// to completion before the next frame is read; one user's malformed frame
// only ever produces an error event on their own connection.
func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, userID string, sink *Sink) {
	conn.SetReadLimit(h.cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("Websocket read error", "user_id", userID, "error", err)
			} else {
				h.log.Info("Websocket closed", "user_id", userID)
			}
			return
		}

		env, err := DecodeEnvelope(raw)
		if err != nil {
			h.log.Debug("Rejected inbound frame", "user_id", userID, "error", err)
			h.emit(ctx, sink, event.Error{Message: "unsupported event"})
			continue
		}

		h.dispatch(ctx, env, userID, sink)
	}
}

func (h *Handler) dispatch(ctx context.Context, env Envelope, userID string, sink *Sink) {
	switch env.Event {
	case EventSendMessage:
		payload, err := decodePayload[SendMessagePayload](env)
		if err != nil {
			h.emit(ctx, sink, event.Error{Message: "invalid sendMessage payload"})
			return
		}
		ack, err := h.messages.Send(ctx, domain.SendMessageCommand{
			SenderID:   userID, // always the authenticated user, never the payload
			ReceiverID: payload.ReceiverID,
			Content:    payload.Content,
			AdID:       payload.AdID,
			ImageURL:   payload.ImageURL,
			Location:   payload.location(),
		})
		if err != nil {
			h.log.Warn("Send rejected", "sender_id", userID, "error", err)
			h.emit(ctx, sink, toErrorEvent(err))
			return
		}
		h.emit(ctx, sink, ack)

	case EventMessageRead:
		payload, err := decodePayload[MessageReadPayload](env)
		if err != nil {
			h.emit(ctx, sink, event.Error{Message: "invalid messageRead payload"})
			return
		}
		if err := h.messages.MarkRead(ctx, domain.MarkReadCommand{
			MessageID: payload.MessageID,
			ReaderID:  userID,
		}); err != nil {
			h.emit(ctx, sink, toErrorEvent(err))
		}

	case EventTyping, EventStopTyping:
		payload, err := decodePayload[TypingPayload](env)
		if err != nil {
			h.emit(ctx, sink, event.Error{Message: "invalid typing payload"})
			return
		}
		cmd := domain.TypingCommand{FromID: userID, ToID: payload.ReceiverID}
		if env.Event == EventTyping {
			h.messages.Typing(ctx, cmd)
		} else {
			h.messages.StopTyping(ctx, cmd)
		}

	case EventGetOnlineUsers:
		// Snapshot goes to the requester only
		h.emit(ctx, sink, h.presence.Snapshot())
	}
}

// writePump drains the sink into the socket and keeps the connection
// alive with periodic pings.
func (h *Handler) writePump(conn *websocket.Conn, sink *Sink, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case e := <-sink.Events:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.WriteJSON(wireFrame{Event: e.EventName(), Data: e}); err != nil {
				h.log.Warn("Websocket write error", "event", e.EventName(), "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (h *Handler) emit(ctx context.Context, sink *Sink, e event.DomainEvent) {
	if err := sink.Consume(ctx, e); err != nil {
		h.log.Debug("Dropped outbound event", "event", e.EventName(), "error", err)
	}
}
