//go:generate go run go.uber.org/mock/mockgen -source=ad.go -destination=../mocks/mock_ad_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"market-chat/domain"
	"market-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IAdRepository interface {
	CreateAd(ad domain.Ad) error
	FindAdByID(id string) (domain.Ad, error)
}

// AdRepository mirrors the classified ads a message can reference. Ad
// lifecycle (creation, moderation, expiry) is owned by the main backend.
type AdRepository struct {
	db *badger.DB
}

func NewAdRepository(db *badger.DB) IAdRepository {
	return &AdRepository{db: db}
}

type diskAd struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	OwnerID   string `json:"owner_id"`
	CreatedAt int64  `json:"created_at"`
}

func adKey(id string) []byte {
	return []byte("ad:" + id)
}

func (a AdRepository) CreateAd(ad domain.Ad) error {
	data, err := json.Marshal(diskAd{
		ID:        ad.ID,
		Title:     ad.Title,
		OwnerID:   ad.OwnerID,
		CreatedAt: ad.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return a.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(adKey(ad.ID)); err == nil {
			return errors.ErrAdExists
		}
		return txn.Set(adKey(ad.ID), data)
	})
}

func (a AdRepository) FindAdByID(id string) (domain.Ad, error) {
	var disk diskAd
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(adKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Ad{}, errors.ErrAdNotFound
	}
	if err != nil {
		return domain.Ad{}, err
	}
	return domain.Ad{
		ID:        disk.ID,
		Title:     disk.Title,
		OwnerID:   disk.OwnerID,
		CreatedAt: time.Unix(disk.CreatedAt, 0).UTC(),
	}, nil
}
