package gateway

import (
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"market-chat/auth"
	"market-chat/domain"
	"market-chat/errors"
	"market-chat/repositories"
	"market-chat/services"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// RestHandler serves the fetch side of the messaging core: conversation
// summaries, paginated history, full-text search, message deletion and
// block management. This is the recovery path for messages that missed a
// real-time push.
type RestHandler struct {
	log      *slog.Logger
	tokens   *auth.TokenManager
	messages services.IMessageService
	blocks   repositories.IBlockRepository
}

func NewRestHandler(log *slog.Logger, tokens *auth.TokenManager,
	messages services.IMessageService, blocks repositories.IBlockRepository) *RestHandler {
	return &RestHandler{log: log, tokens: tokens, messages: messages, blocks: blocks}
}

func (h *RestHandler) Register(app *fiber.App) {
	api := app.Group("/api", h.requireAuth)
	api.Get("/conversations", h.listConversations)
	api.Get("/conversations/:peerID/messages", h.history)
	api.Get("/messages/search", h.search)
	api.Delete("/messages/:id", h.deleteMessage)
	api.Post("/blocks/:userID", h.block)
	api.Delete("/blocks/:userID", h.unblock)
}

// requireAuth validates the bearer token and stashes the caller's user id.
func (h *RestHandler) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	c.Locals("userID", claims.UserID)
	return c.Next()
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

type messageResponse struct {
	ID         string           `json:"id"`
	SenderID   string           `json:"senderId"`
	ReceiverID string           `json:"receiverId"`
	Content    string           `json:"content"`
	AdID       string           `json:"adId,omitempty"`
	ImageURL   string           `json:"imageUrl,omitempty"`
	Location   *domain.Location `json:"location,omitempty"`
	IsRead     bool             `json:"isRead"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type conversationResponse struct {
	PeerID      string          `json:"peerId"`
	LastMessage messageResponse `json:"lastMessage"`
	UnreadCount int             `json:"unreadCount"`
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID.String(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		AdID:       m.AdID,
		ImageURL:   m.ImageURL,
		Location:   m.Location,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func (h *RestHandler) listConversations(c *fiber.Ctx) error {
	conversations, err := h.messages.Conversations(callerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"conversations": lo.Map(conversations, func(conv domain.Conversation, _ int) conversationResponse {
			return conversationResponse{
				PeerID:      conv.PeerID,
				LastMessage: toMessageResponse(conv.LastMessage),
				UnreadCount: conv.UnreadCount,
			}
		}),
	})
}

func (h *RestHandler) history(c *fiber.Ctx) error {
	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}
	messages, next, err := h.messages.History(domain.HistoryCommand{
		UserID: callerID(c),
		PeerID: c.Params("peerID"),
		Cursor: cursor,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"messages": lo.Map(messages, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(m)
		}),
		"cursor": next,
	})
}

func (h *RestHandler) search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing query")
	}
	messages, err := h.messages.Search(c.Context(), callerID(c), query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"messages": lo.Map(messages, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(m)
		}),
	})
}

func (h *RestHandler) deleteMessage(c *fiber.Ctx) error {
	message, err := h.messages.Delete(domain.DeleteMessageCommand{
		MessageID:   c.Params("id"),
		RequesterID: callerID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toMessageResponse(message))
}

func (h *RestHandler) block(c *fiber.Ctx) error {
	blocked := c.Params("userID")
	if blocked == callerID(c) {
		return fiber.NewError(fiber.StatusBadRequest, "cannot block yourself")
	}
	if err := h.blocks.Block(callerID(c), blocked); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *RestHandler) unblock(c *fiber.Ctx) error {
	if err := h.blocks.Unblock(callerID(c), c.Params("userID")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// fail maps domain sentinels to HTTP statuses; anything unknown is logged
// and reported as a plain 500 without leaking internals.
func (h *RestHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case stderrors.Is(err, errors.ErrMessageNotFound),
		stderrors.Is(err, errors.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case stderrors.Is(err, errors.ErrNotSender),
		stderrors.Is(err, errors.ErrNotReceiver):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case stderrors.Is(err, errors.ErrBlockExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		h.log.Error("Request failed", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
