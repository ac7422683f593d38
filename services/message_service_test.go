package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"market-chat/domain"
	"market-chat/domain/event"
	"market-chat/errors"
	"market-chat/mocks"
	"market-chat/moderation"
	"market-chat/runtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingSink captures every event pushed to a connection.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (r *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) all() []event.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.DomainEvent(nil), r.events...)
}

func (r *recordingSink) byName(name string) []event.DomainEvent {
	var matched []event.DomainEvent
	for _, e := range r.all() {
		if e.EventName() == name {
			matched = append(matched, e)
		}
	}
	return matched
}

type relayFixture struct {
	users    *mocks.MockIUserRepository
	ads      *mocks.MockIAdRepository
	blocks   *mocks.MockIBlockRepository
	messages *mocks.MockIMessageRepository
	search   *mocks.MockISearchRepository
	registry *runtime.Registry
	service  *MessageService
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	moderator, err := moderation.NewModerator([]string{"scammer"}, '*')
	require.NoError(t, err)

	f := &relayFixture{
		users:    mocks.NewMockIUserRepository(ctrl),
		ads:      mocks.NewMockIAdRepository(ctrl),
		blocks:   mocks.NewMockIBlockRepository(ctrl),
		messages: mocks.NewMockIMessageRepository(ctrl),
		search:   mocks.NewMockISearchRepository(ctrl),
		registry: runtime.NewRegistry(),
	}
	f.service = NewMessageService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		f.users, f.ads, f.blocks, f.messages, f.search,
		f.registry, &moderator, 20,
	)
	return f
}

func TestMessageService_Send_Offline_Receiver(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	// Given a valid receiver who has no tracked connection
	f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
	f.blocks.EXPECT().IsBlocked("bob", "alice").Return(false, nil)
	var stored domain.Message
	f.messages.EXPECT().StoreMessage(gomock.Any()).
		DoAndReturn(func(m domain.Message) error {
			stored = m
			return nil
		})
	f.search.EXPECT().Index(gomock.Any()).Return(nil)

	// When alice sends a message
	ack, err := f.service.Send(ctx, domain.SendMessageCommand{
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "is the bike still available?",
	})

	// Then the message is persisted unread and acknowledged as sent only
	req.NoError(err)
	req.Equal(domain.StatusSent, ack.Status)
	req.Equal(stored.ID, ack.ID)
	req.False(stored.IsRead)
	req.Equal("alice", stored.SenderID)
	req.Equal("bob", stored.ReceiverID)
}

func TestMessageService_Send_Online_Receiver(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	// Given bob is connected
	sink := &recordingSink{}
	f.registry.Register("bob", "conn-bob", sink)

	f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
	f.blocks.EXPECT().IsBlocked("bob", "alice").Return(false, nil)
	var stored domain.Message
	f.messages.EXPECT().StoreMessage(gomock.Any()).
		DoAndReturn(func(m domain.Message) error {
			stored = m
			return nil
		})
	f.search.EXPECT().Index(gomock.Any()).Return(nil)
	f.users.EXPECT().FindUserByID("alice").
		Return(domain.User{ID: "alice", FirstName: "Alice"}, nil)

	// When alice sends a message
	ack, err := f.service.Send(ctx, domain.SendMessageCommand{
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "hello",
	})

	// Then bob receives exactly one push carrying the persisted id
	req.NoError(err)
	req.Equal(domain.StatusDelivered, ack.Status)
	pushed := sink.byName(event.MessageReceived{}.EventName())
	req.Len(pushed, 1)
	received := pushed[0].(event.MessageReceived)
	req.Equal(stored.ID, received.ID)
	req.Equal("Alice", received.Sender.FirstName)
}

func TestMessageService_Send_Censors_Content(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
	f.blocks.EXPECT().IsBlocked("bob", "alice").Return(false, nil)
	var stored domain.Message
	f.messages.EXPECT().StoreMessage(gomock.Any()).
		DoAndReturn(func(m domain.Message) error {
			stored = m
			return nil
		})
	f.search.EXPECT().Index(gomock.Any()).Return(nil)

	_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "you are a scammer",
	})

	req.NoError(err)
	req.Equal("you are a *******", stored.Content)
}

func TestMessageService_Send_Rejections(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		req := require.New(t)
		f := newRelayFixture(t)

		_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
			SenderID: "alice", ReceiverID: "bob",
		})

		req.ErrorIs(err, errors.ErrEmptyContent)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		req := require.New(t)
		f := newRelayFixture(t)
		f.users.EXPECT().FindUserByID("ghost").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
			SenderID: "alice", ReceiverID: "ghost", Content: "hello",
		})

		req.ErrorIs(err, errors.ErrReceiverNotFound)
	})

	t.Run("self message", func(t *testing.T) {
		req := require.New(t)
		f := newRelayFixture(t)
		f.users.EXPECT().FindUserByID("alice").Return(domain.User{ID: "alice"}, nil)

		_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
			SenderID: "alice", ReceiverID: "alice", Content: "note to self",
		})

		req.ErrorIs(err, errors.ErrSelfMessage)
	})

	t.Run("sender blocked by receiver", func(t *testing.T) {
		req := require.New(t)
		f := newRelayFixture(t)
		f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
		f.blocks.EXPECT().IsBlocked("bob", "alice").Return(true, nil)

		_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
			SenderID: "alice", ReceiverID: "bob", Content: "hello",
		})

		req.ErrorIs(err, errors.ErrBlocked)
	})

	t.Run("unknown ad", func(t *testing.T) {
		req := require.New(t)
		f := newRelayFixture(t)
		f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
		f.blocks.EXPECT().IsBlocked("bob", "alice").Return(false, nil)
		f.ads.EXPECT().FindAdByID("ad-404").Return(domain.Ad{}, errors.ErrAdNotFound)

		_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
			SenderID: "alice", ReceiverID: "bob", Content: "hello", AdID: "ad-404",
		})

		req.ErrorIs(err, errors.ErrAdNotFound)
	})
}

func TestMessageService_MarkRead_Notifies_Connected_Sender(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	// Given alice sent bob a message and is still connected
	sink := &recordingSink{}
	f.registry.Register("alice", "conn-alice", sink)
	id := uuid.New()
	message := domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob"}
	f.messages.EXPECT().GetMessage(id).Return(message, nil)
	read := message
	read.IsRead = true
	f.messages.EXPECT().MarkRead(id).Return(read, nil)

	// When bob marks it read
	err := f.service.MarkRead(ctx, domain.MarkReadCommand{
		MessageID: id.String(),
		ReaderID:  "bob",
	})

	// Then alice gets the read notification
	req.NoError(err)
	notifications := sink.byName(event.MessageReadNotification{}.EventName())
	req.Len(notifications, 1)
	notification := notifications[0].(event.MessageReadNotification)
	req.Equal(id.String(), notification.MessageID)
	req.Equal("bob", notification.ReadBy)
}

func TestMessageService_MarkRead_Offline_Sender_Is_Silent(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	id := uuid.New()
	message := domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob"}
	f.messages.EXPECT().GetMessage(id).Return(message, nil)
	read := message
	read.IsRead = true
	f.messages.EXPECT().MarkRead(id).Return(read, nil)

	err := f.service.MarkRead(context.Background(), domain.MarkReadCommand{
		MessageID: id.String(),
		ReaderID:  "bob",
	})

	req.NoError(err)
}

func TestMessageService_MarkRead_Only_For_Receiver(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	id := uuid.New()
	f.messages.EXPECT().GetMessage(id).
		Return(domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob"}, nil)

	// When someone other than the receiver marks the message read
	err := f.service.MarkRead(context.Background(), domain.MarkReadCommand{
		MessageID: id.String(),
		ReaderID:  "clara",
	})

	req.ErrorIs(err, errors.ErrNotReceiver)
}

func TestMessageService_Typing_Forwarded_Without_Persistence(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	// Given bob is connected; no repository expectation is set, so any
	// persistence attempt fails the test
	sink := &recordingSink{}
	f.registry.Register("bob", "conn-bob", sink)

	// When alice starts then stops typing
	f.service.Typing(ctx, domain.TypingCommand{FromID: "alice", ToID: "bob"})
	f.service.StopTyping(ctx, domain.TypingCommand{FromID: "alice", ToID: "bob"})

	// Then bob sees both signals
	typing := sink.byName(event.UserTyping{}.EventName())
	req.Len(typing, 1)
	req.Equal("alice", typing[0].(event.UserTyping).UserID)
	stopped := sink.byName(event.UserStoppedTyping{}.EventName())
	req.Len(stopped, 1)
}

func TestMessageService_Typing_To_Offline_User_Is_Noop(t *testing.T) {
	f := newRelayFixture(t)

	f.service.Typing(context.Background(), domain.TypingCommand{FromID: "alice", ToID: "nobody"})
}

func TestMessageService_Delete_Only_For_Sender(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	id := uuid.New()
	f.messages.EXPECT().GetMessage(id).
		Return(domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob"}, nil)

	// When the receiver tries to delete the sender's message
	_, err := f.service.Delete(domain.DeleteMessageCommand{
		MessageID:   id.String(),
		RequesterID: "bob",
	})

	req.ErrorIs(err, errors.ErrNotSender)
}

func TestMessageService_Delete_Tombstones(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	id := uuid.New()
	f.messages.EXPECT().GetMessage(id).
		Return(domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob"}, nil)
	f.messages.EXPECT().Tombstone(id).
		Return(domain.Message{ID: id, SenderID: "alice", ReceiverID: "bob", Content: domain.Tombstone}, nil)

	deleted, err := f.service.Delete(domain.DeleteMessageCommand{
		MessageID:   id.String(),
		RequesterID: "alice",
	})

	req.NoError(err)
	req.True(deleted.Deleted())
}

func TestMessageService_Search_Resolves_Hits(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()
	id := uuid.New()
	f.search.EXPECT().Search(ctx, "alice", "bike", 20).
		Return([]string{id.String(), "not-a-uuid"}, nil)
	f.messages.EXPECT().GetMessage(id).
		Return(domain.Message{ID: id, Content: "about the bike"}, nil)

	results, err := f.service.Search(ctx, "alice", "bike")

	// Then only the resolvable hit comes back
	req.NoError(err)
	req.Len(results, 1)
	req.Equal(id, results[0].ID)
}

func TestMessageService_Send_Sets_Timestamps(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	f.users.EXPECT().FindUserByID("bob").Return(domain.User{ID: "bob"}, nil)
	f.blocks.EXPECT().IsBlocked("bob", "alice").Return(false, nil)
	var stored domain.Message
	f.messages.EXPECT().StoreMessage(gomock.Any()).
		DoAndReturn(func(m domain.Message) error {
			stored = m
			return nil
		})
	f.search.EXPECT().Index(gomock.Any()).Return(nil)

	before := time.Now().UTC()
	_, err := f.service.Send(context.Background(), domain.SendMessageCommand{
		SenderID: "alice", ReceiverID: "bob", Content: "hello",
	})

	req.NoError(err)
	req.False(stored.CreatedAt.Before(before))
	req.Equal(stored.CreatedAt, stored.UpdatedAt)
}
