//go:generate go run go.uber.org/mock/mockgen -source=block.go -destination=../mocks/mock_block_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"time"

	"market-chat/domain"
	"market-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IBlockRepository interface {
	Block(blockerID, blockedID string) error
	Unblock(blockerID, blockedID string) error
	IsBlocked(blockerID, blockedID string) (bool, error)
}

// BlockRepository stores the directed block relation. The key embeds the
// {blocker, blocked} pair, which makes the uniqueness invariant a plain
// key collision.
type BlockRepository struct {
	db *badger.DB
}

func NewBlockRepository(db *badger.DB) IBlockRepository {
	return &BlockRepository{db: db}
}

func blockKey(blockerID, blockedID string) []byte {
	return []byte("block:" + blockerID + ":" + blockedID)
}

func (b BlockRepository) Block(blockerID, blockedID string) error {
	data, err := json.Marshal(domain.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(blockKey(blockerID, blockedID)); err == nil {
			return errors.ErrBlockExists
		}
		return txn.Set(blockKey(blockerID, blockedID), data)
	})
}

func (b BlockRepository) Unblock(blockerID, blockedID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blockKey(blockerID, blockedID))
	})
}

func (b BlockRepository) IsBlocked(blockerID, blockedID string) (bool, error) {
	blocked := false
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(blockKey(blockerID, blockedID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		blocked = true
		return nil
	})
	return blocked, err
}
