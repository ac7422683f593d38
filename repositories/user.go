//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"market-chat/domain"
	"market-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	FindUserByID(id string) (domain.User, error)
}

// UserRepository stores the public profile slice of marketplace users the
// gateway needs for lookups and sender summaries. The full account record
// belongs to the main backend.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

type diskUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

func (u UserRepository) CreateUser(user domain.User) error {
	disk := diskUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt.Unix(),
	}
	data, err := json.Marshal(disk)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(user.ID)); err == nil {
			return errors.ErrUserExists
		}
		return txn.Set(userKey(user.ID), data)
	})
}

func (u UserRepository) FindUserByID(id string) (domain.User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:        disk.ID,
		FirstName: disk.FirstName,
		LastName:  disk.LastName,
		Avatar:    disk.Avatar,
		CreatedAt: time.Unix(disk.CreatedAt, 0).UTC(),
	}, nil
}
