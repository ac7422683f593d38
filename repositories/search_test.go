package repositories

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func newTestSearchRepository(t *testing.T) SearchRepository {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewSearchRepository(writer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchRepository_Finds_Own_Conversations_Only(t *testing.T) {
	req := require.New(t)
	repo := newTestSearchRepository(t)
	ctx := context.Background()
	at := time.Now().UTC()

	mine := newTestMessage("alice", "bob", "selling my mountain bike", at)
	req.NoError(repo.Index(mine))
	theirs := newTestMessage("clara", "dave", "another mountain bike here", at)
	req.NoError(repo.Index(theirs))

	// When alice searches for "bike"
	ids, err := repo.Search(ctx, "alice", "bike", 10)

	// Then only her conversation matches
	req.NoError(err)
	req.Equal([]string{mine.ID.String()}, ids)
}

func TestSearchRepository_Receiver_Can_Search_Too(t *testing.T) {
	req := require.New(t)
	repo := newTestSearchRepository(t)

	message := newTestMessage("alice", "bob", "the sofa is blue", time.Now().UTC())
	req.NoError(repo.Index(message))

	ids, err := repo.Search(context.Background(), "bob", "sofa", 10)

	req.NoError(err)
	req.Equal([]string{message.ID.String()}, ids)
}

func TestSearchRepository_No_Match_Returns_Empty(t *testing.T) {
	req := require.New(t)
	repo := newTestSearchRepository(t)

	message := newTestMessage("alice", "bob", "hello there", time.Now().UTC())
	req.NoError(repo.Index(message))

	ids, err := repo.Search(context.Background(), "alice", "motorcycle", 10)

	req.NoError(err)
	req.Empty(ids)
}

func TestSearchRepository_Reindex_Replaces_Document(t *testing.T) {
	req := require.New(t)
	repo := newTestSearchRepository(t)
	ctx := context.Background()

	// Given a message indexed, then tombstoned and reindexed
	message := newTestMessage("alice", "bob", "selling a guitar", time.Now().UTC())
	req.NoError(repo.Index(message))
	message.Content = "[message deleted]"
	req.NoError(repo.Index(message))

	// Then the old content no longer matches
	ids, err := repo.Search(ctx, "alice", "guitar", 10)
	req.NoError(err)
	req.Empty(ids)
}
