package repositories

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// MessageIndex maintains a Bluge full-text index over archived messages so
// a facilitator can search a charette's transcript.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

type SearchHit struct {
	MessageID uuid.UUID
	Room      string
	Author    string
	Content   string
	At        time.Time
}

// Index makes one archived message searchable. Re-indexing the same id
// overwrites the previous document.
func (i *MessageIndex) Index(message ArchivedMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("charette", message.Charette).StoreValue()).
		AddField(bluge.NewKeywordField("room", message.Room).StoreValue()).
		AddField(bluge.NewKeywordField("author", message.Author).StoreValue()).
		AddField(bluge.NewKeywordField("at", message.At.UTC().Format(time.RFC3339Nano)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search matches terms against a single charette's messages and returns at
// most limit hits, best match first. Every call opens a fresh reader, so
// all previously indexed messages are visible.
func (i *MessageIndex) Search(ctx context.Context, charette, terms string, limit int) ([]SearchHit, uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(charette).SetField("charette"))

	request := bluge.NewTopNSearch(limit, query).WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, 0, err
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.MessageID = id
				}
			case "content":
				hit.Content = string(value)
			case "room":
				hit.Room = string(value)
			case "author":
				hit.Author = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, hit)
	}
	total := iterator.Aggregations().Count()
	i.log.Debug("Search executed",
		"charette_id", charette,
		"terms", terms,
		"total", strconv.FormatUint(total, 10))
	return hits, total, nil
}
