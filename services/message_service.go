//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"market-chat/contract"
	"market-chat/domain"
	"market-chat/domain/event"
	"market-chat/errors"
	"market-chat/moderation"
	"market-chat/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IMessageService interface {
	Send(ctx context.Context, cmd domain.SendMessageCommand) (event.MessageSent, error)
	MarkRead(ctx context.Context, cmd domain.MarkReadCommand) error
	Typing(ctx context.Context, cmd domain.TypingCommand)
	StopTyping(ctx context.Context, cmd domain.TypingCommand)
	Delete(cmd domain.DeleteMessageCommand) (domain.Message, error)
	History(cmd domain.HistoryCommand) ([]domain.Message, *string, error)
	Conversations(userID string) ([]domain.Conversation, error)
	Search(ctx context.Context, userID, query string) ([]domain.Message, error)
}

// MessageService is the relay between two users: it validates a send
// intent, persists the message and pushes it to the receiver's connection
// when one is tracked. It also propagates the ephemeral signals (typing,
// read receipts) that are never persisted beyond the read flag.
type MessageService struct {
	log         *slog.Logger
	users       repositories.IUserRepository
	ads         repositories.IAdRepository
	blocks      repositories.IBlockRepository
	messages    repositories.IMessageRepository
	search      repositories.ISearchRepository
	registry    contract.IRegistry
	moderator   *moderation.Moderator
	searchLimit int
}

func NewMessageService(
	log *slog.Logger,
	users repositories.IUserRepository,
	ads repositories.IAdRepository,
	blocks repositories.IBlockRepository,
	messages repositories.IMessageRepository,
	search repositories.ISearchRepository,
	registry contract.IRegistry,
	moderator *moderation.Moderator,
	searchLimit int,
) *MessageService {
	return &MessageService{
		log:         log,
		users:       users,
		ads:         ads,
		blocks:      blocks,
		messages:    messages,
		search:      search,
		registry:    registry,
		moderator:   moderator,
		searchLimit: searchLimit,
	}
}

// Send runs the validation sequence in order, short-circuiting on the
// first failure; nothing is persisted on any validation error. On success
// the message row is written first, then pushed best-effort to the
// receiver. A crash or a stale handle between those two steps leaves the
// message durable and recoverable on the receiver's next fetch.
func (s *MessageService) Send(ctx context.Context, cmd domain.SendMessageCommand) (event.MessageSent, error) {
	if cmd.Content == "" {
		return event.MessageSent{}, errors.ErrEmptyContent
	}

	receiver, err := s.users.FindUserByID(cmd.ReceiverID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return event.MessageSent{}, errors.ErrReceiverNotFound
		}
		return event.MessageSent{}, fmt.Errorf("receiver lookup: %w", err)
	}

	if cmd.SenderID == cmd.ReceiverID {
		return event.MessageSent{}, errors.ErrSelfMessage
	}

	// Direction matters: is the sender on the receiver's blocked list
	blocked, err := s.blocks.IsBlocked(cmd.ReceiverID, cmd.SenderID)
	if err != nil {
		return event.MessageSent{}, fmt.Errorf("block lookup: %w", err)
	}
	if blocked {
		return event.MessageSent{}, errors.ErrBlocked
	}

	if cmd.AdID != "" {
		if _, err := s.ads.FindAdByID(cmd.AdID); err != nil {
			if stderrors.Is(err, errors.ErrAdNotFound) {
				return event.MessageSent{}, errors.ErrAdNotFound
			}
			return event.MessageSent{}, fmt.Errorf("ad lookup: %w", err)
		}
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	content := s.moderator.Censor(cmd.Content)
	lang := whatlanggo.LangToString(whatlanggo.Detect(content).Lang)

	message := domain.Message{
		ID:         uuid.New(),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Content:    content,
		AdID:       cmd.AdID,
		ImageURL:   cmd.ImageURL,
		Location:   cmd.Location,
		Lang:       lang,
		IsRead:     false,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	if err := s.messages.StoreMessage(message); err != nil {
		return event.MessageSent{}, fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}

	// The index is derived data; losing an entry must not fail the send
	if err := s.search.Index(message); err != nil {
		s.log.Warn("Failed to index message", "message_id", message.ID, "error", err)
	}

	status := domain.StatusSent
	if sink, ok := s.registry.Lookup(cmd.ReceiverID); ok {
		received := toMessageReceived(message, s.senderSummary(cmd.SenderID))
		if err := sink.Consume(ctx, received); err != nil {
			// Stale or saturated handle: treat as offline, the row stays
			s.log.Warn("Push to receiver failed",
				"message_id", message.ID,
				"receiver_id", cmd.ReceiverID,
				"error", err)
		} else {
			status = domain.StatusDelivered
		}
	}

	s.log.Debug("Message relayed",
		"message_id", message.ID,
		"receiver_id", receiver.ID,
		"status", string(status))

	return event.MessageSent{ID: message.ID, Timestamp: message.CreatedAt, Status: status}, nil
}

// MarkRead flips the read flag (idempotent, one-way) and notifies the
// original sender when they are connected. An offline sender is a logged
// no-op, not an error.
func (s *MessageService) MarkRead(ctx context.Context, cmd domain.MarkReadCommand) error {
	id, err := uuid.Parse(cmd.MessageID)
	if err != nil {
		return errors.ErrMessageNotFound
	}

	message, err := s.messages.GetMessage(id)
	if err != nil {
		return err
	}
	if message.ReceiverID != cmd.ReaderID {
		return errors.ErrNotReceiver
	}

	message, err = s.messages.MarkRead(id)
	if err != nil {
		return err
	}

	sink, ok := s.registry.Lookup(message.SenderID)
	if !ok {
		s.log.Debug("Sender offline, read notification skipped",
			"message_id", message.ID, "sender_id", message.SenderID)
		return nil
	}

	notification := event.MessageReadNotification{
		MessageID: message.ID.String(),
		ReadBy:    cmd.ReaderID,
		ReadAt:    time.Now().UTC(),
	}
	if err := sink.Consume(ctx, notification); err != nil {
		s.log.Debug("Read notification push failed",
			"message_id", message.ID, "error", err)
	}
	return nil
}

// Typing forwards the ephemeral signal to the target when connected.
// Never persisted, never acknowledged.
func (s *MessageService) Typing(ctx context.Context, cmd domain.TypingCommand) {
	s.signal(ctx, cmd.ToID, event.UserTyping{UserID: cmd.FromID, Timestamp: time.Now().UTC()})
}

func (s *MessageService) StopTyping(ctx context.Context, cmd domain.TypingCommand) {
	s.signal(ctx, cmd.ToID, event.UserStoppedTyping{UserID: cmd.FromID})
}

func (s *MessageService) signal(ctx context.Context, targetID string, e event.DomainEvent) {
	sink, ok := s.registry.Lookup(targetID)
	if !ok {
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		s.log.Debug("Signal push failed", "target_id", targetID, "event", e.EventName(), "error", err)
	}
}

// Delete tombstones a message: the row survives with sender, receiver and
// timestamps intact, only the content is overwritten.
func (s *MessageService) Delete(cmd domain.DeleteMessageCommand) (domain.Message, error) {
	id, err := uuid.Parse(cmd.MessageID)
	if err != nil {
		return domain.Message{}, errors.ErrMessageNotFound
	}

	message, err := s.messages.GetMessage(id)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != cmd.RequesterID {
		return domain.Message{}, errors.ErrNotSender
	}

	return s.messages.Tombstone(id)
}

func (s *MessageService) History(cmd domain.HistoryCommand) ([]domain.Message, *string, error) {
	return s.messages.History(cmd.UserID, cmd.PeerID, cmd.Cursor)
}

func (s *MessageService) Conversations(userID string) ([]domain.Conversation, error) {
	return s.messages.Conversations(userID)
}

// Search resolves full-text hits back to message rows, restricted to
// conversations the requester participates in.
func (s *MessageService) Search(ctx context.Context, userID, query string) ([]domain.Message, error) {
	ids, err := s.search.Search(ctx, userID, query, s.searchLimit)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		message, err := s.messages.GetMessage(id)
		if err != nil {
			// Index entries can outlive nothing here (rows are never
			// deleted), but stay defensive about unparseable records
			s.log.Warn("Search hit could not be resolved", "message_id", raw, "error", err)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// senderSummary loads the public profile fields pushed with a delivered
// message. A failed lookup degrades to the bare id.
func (s *MessageService) senderSummary(senderID string) event.SenderSummary {
	sender, err := s.users.FindUserByID(senderID)
	if err != nil {
		s.log.Warn("Sender profile lookup failed", "sender_id", senderID, "error", err)
		return event.SenderSummary{ID: senderID}
	}
	return event.SenderSummary{
		ID:        sender.ID,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
		Avatar:    sender.Avatar,
	}
}

func toMessageReceived(m domain.Message, sender event.SenderSummary) event.MessageReceived {
	return event.MessageReceived{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		AdID:       m.AdID,
		ImageURL:   m.ImageURL,
		Location:   m.Location,
		CreatedAt:  m.CreatedAt,
		Sender:     sender,
	}
}
