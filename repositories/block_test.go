package repositories

import (
	"testing"

	"market-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestBlockRepository_Block_Unblock_Roundtrip(t *testing.T) {
	req := require.New(t)
	repo := NewBlockRepository(openTestDB(t))

	// Given no block exists
	blocked, err := repo.IsBlocked("alice", "bob")
	req.NoError(err)
	req.False(blocked)

	// When alice blocks bob
	req.NoError(repo.Block("alice", "bob"))

	// Then the relation exists in one direction only
	blocked, err = repo.IsBlocked("alice", "bob")
	req.NoError(err)
	req.True(blocked)

	reverse, err := repo.IsBlocked("bob", "alice")
	req.NoError(err)
	req.False(reverse)

	// And unblocking removes it
	req.NoError(repo.Unblock("alice", "bob"))
	blocked, err = repo.IsBlocked("alice", "bob")
	req.NoError(err)
	req.False(blocked)
}

func TestBlockRepository_Duplicate_Block_Rejected(t *testing.T) {
	req := require.New(t)
	repo := NewBlockRepository(openTestDB(t))

	req.NoError(repo.Block("alice", "bob"))

	req.ErrorIs(repo.Block("alice", "bob"), errors.ErrBlockExists)
}

func TestBlockRepository_Unblock_Missing_Is_Noop(t *testing.T) {
	req := require.New(t)
	repo := NewBlockRepository(openTestDB(t))

	req.NoError(repo.Unblock("alice", "bob"))
}
