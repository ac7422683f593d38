//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"

	"market-chat/domain"

	"github.com/blugelabs/bluge"
)

type ISearchRepository interface {
	Index(message domain.Message) error
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

// SearchRepository maintains a Bluge full-text index over message content.
// Search results are message ids; callers resolve them against the
// message repository. Only conversations the requester participates in
// are searchable.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger) SearchRepository {
	return SearchRepository{writer: writer, log: log}
}

func (s SearchRepository) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content)).
		AddField(bluge.NewKeywordField("sender", message.SenderID)).
		AddField(bluge.NewKeywordField("receiver", message.ReceiverID))
	return s.writer.Update(doc.ID(), doc)
}

func (s SearchRepository) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("Failed to close bluge reader", "error", err)
		}
	}()

	// Restrict hits to conversations the requester is part of
	participant := bluge.NewBooleanQuery()
	participant.AddShould(bluge.NewTermQuery(userID).SetField("sender"))
	participant.AddShould(bluge.NewTermQuery(userID).SetField("receiver"))
	participant.SetMinShould(1)

	q := bluge.NewBooleanQuery()
	q.AddMust(bluge.NewMatchQuery(query).SetField("content"))
	q.AddMust(participant)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
