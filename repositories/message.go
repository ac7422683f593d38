//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"market-chat/domain"
	"market-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id uuid.UUID) (domain.Message, error)
	MarkRead(id uuid.UUID) (domain.Message, error)
	Tombstone(id uuid.UUID) (domain.Message, error)
	History(userID, peerID string, cursor *string) ([]domain.Message, *string, error)
	Conversations(userID string) ([]domain.Conversation, error)
}

// MessageRepository persists messages in BadgerDB under three key spaces:
//
//	msgid:{uuid}                          -> JSON message (primary record)
//	pair:{a}:{b}:{timestamp_padded}:{uuid} -> message id (history index)
//	inbox:{user}:{timestamp_padded}:{uuid} -> message id (conversation index)
//
// where {a}:{b} is the lexicographically sorted user pair. The 19-digit
// zero-padded UnixNano timestamp makes lexicographical order chronological,
// and the trailing UUID disconnects collisions if two messages land on the
// same nanosecond.
type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limit *int) MessageRepository {
	return MessageRepository{db: db, log: log, limit: limit}
}

type diskMessage struct {
	ID         string           `json:"id"`
	SenderID   string           `json:"sender_id"`
	ReceiverID string           `json:"receiver_id"`
	Content    string           `json:"content"`
	AdID       string           `json:"ad_id,omitempty"`
	ImageURL   string           `json:"image_url,omitempty"`
	Location   *domain.Location `json:"location,omitempty"`
	Lang       string           `json:"lang,omitempty"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  int64            `json:"created_at"`
	UpdatedAt  int64            `json:"updated_at"`
}

func primaryKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

// pairPrefix returns the shared history prefix for two users, independent
// of who sent what.
func pairPrefix(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("pair:%s:%s:", a, b)
}

func inboxPrefix(userID string) string {
	return fmt.Sprintf("inbox:%s:", userID)
}

func indexSuffix(m domain.Message) string {
	return fmt.Sprintf("%019d:%s", m.CreatedAt.UnixNano(), m.ID)
}

// StoreMessage writes the primary record plus the history and per-user
// conversation index entries in a single transaction.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	idBytes := []byte(message.ID.String())
	suffix := indexSuffix(message)

	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primaryKey(message.ID), data); err != nil {
			return err
		}
		if err := txn.Set([]byte(pairPrefix(message.SenderID, message.ReceiverID)+suffix), idBytes); err != nil {
			return err
		}
		if err := txn.Set([]byte(inboxPrefix(message.SenderID)+suffix), idBytes); err != nil {
			return err
		}
		return txn.Set([]byte(inboxPrefix(message.ReceiverID)+suffix), idBytes)
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (domain.Message, error) {
	var disk diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(primaryKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk)
}

// MarkRead flips the read flag. The transition is one-way: calling it on
// an already-read message returns the stored record untouched.
func (m MessageRepository) MarkRead(id uuid.UUID) (domain.Message, error) {
	return m.mutate(id, func(disk *diskMessage) bool {
		if disk.IsRead {
			return false
		}
		disk.IsRead = true
		return true
	})
}

// Tombstone overwrites the content with the fixed deletion marker while
// preserving the row, sender, receiver and timestamps.
func (m MessageRepository) Tombstone(id uuid.UUID) (domain.Message, error) {
	return m.mutate(id, func(disk *diskMessage) bool {
		if disk.Content == domain.Tombstone {
			return false
		}
		disk.Content = domain.Tombstone
		return true
	})
}

func (m MessageRepository) mutate(id uuid.UUID, apply func(*diskMessage) bool) (domain.Message, error) {
	var disk diskMessage
	err := m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(primaryKey(id))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		}); err != nil {
			return err
		}
		if !apply(&disk) {
			return nil
		}
		disk.UpdatedAt = time.Now().UTC().UnixNano()
		data, err := json.Marshal(disk)
		if err != nil {
			return err
		}
		return txn.Set(primaryKey(id), data)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk)
}

// History retrieves the messages between two users using a reverse prefix
// scan, newest first. Thanks to the padded timestamp in the key, messages
// are naturally sorted by time. It stops once the configured limit is
// reached and returns the cursor part of the last visited key.
func (m MessageRepository) History(userID, peerID string, cursor *string) ([]domain.Message, *string, error) {
	var ids []string
	var lastKey string
	prefixStr := pairPrefix(userID, peerID)

	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk back
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limit != nil && len(ids) == *m.limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			if err := item.Value(func(value []byte) error {
				ids = append(ids, string(value))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages, err := m.resolve(ids)
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

// Conversations derives the conversation list for a user on demand: one
// entry per counterpart, carrying the most recent message and the number
// of unread messages addressed to the user. Nothing is persisted for it.
func (m MessageRepository) Conversations(userID string) ([]domain.Conversation, error) {
	prefixStr := inboxPrefix(userID)

	var ids []string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(prefix, []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				ids = append(ids, string(value))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages, err := m.resolve(ids)
	if err != nil {
		return nil, err
	}

	byPeer := make(map[string]*domain.Conversation)
	var order []string
	for _, msg := range messages {
		peer := msg.SenderID
		if peer == userID {
			peer = msg.ReceiverID
		}
		conv, ok := byPeer[peer]
		if !ok {
			// Newest first, so the first message seen per peer is the summary
			conv = &domain.Conversation{PeerID: peer, LastMessage: msg}
			byPeer[peer] = conv
			order = append(order, peer)
		}
		if msg.ReceiverID == userID && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]domain.Conversation, 0, len(order))
	for _, peer := range order {
		conversations = append(conversations, *byPeer[peer])
	}
	return conversations, nil
}

// resolve fetches primary records for a list of index values.
func (m MessageRepository) resolve(ids []string) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte("msgid:" + id))
			if err != nil {
				return err
			}
			var disk diskMessage
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			}); err != nil {
				return err
			}
			msg, err := toMessage(disk)
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	})
	return messages, err
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:         message.ID.String(),
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		AdID:       message.AdID,
		ImageURL:   message.ImageURL,
		Location:   message.Location,
		Lang:       message.Lang,
		IsRead:     message.IsRead,
		CreatedAt:  message.CreatedAt.UnixNano(),
		UpdatedAt:  message.UpdatedAt.UnixNano(),
	}
}

func toMessage(disk diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:         parsedID,
		SenderID:   disk.SenderID,
		ReceiverID: disk.ReceiverID,
		Content:    disk.Content,
		AdID:       disk.AdID,
		ImageURL:   disk.ImageURL,
		Location:   disk.Location,
		Lang:       disk.Lang,
		IsRead:     disk.IsRead,
		CreatedAt:  time.Unix(0, disk.CreatedAt).UTC(),
		UpdatedAt:  time.Unix(0, disk.UpdatedAt).UTC(),
	}, nil
}
