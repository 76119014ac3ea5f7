package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default())
}

func Test_Index_And_Search(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	charette := uuid.NewString()
	at := time.Now().UTC()

	messages := []ArchivedMessage{
		{ID: uuid.New(), Charette: charette, Room: "main", Author: "Ann", Content: "we need better schools", At: at},
		{ID: uuid.New(), Charette: charette, Room: "room-1", Author: "Howard", Content: "schools are underfunded", At: at},
		{ID: uuid.New(), Charette: charette, Room: "main", Author: "Clara", Content: "nothing to do with it", At: at},
	}
	for _, m := range messages {
		req.NoError(index.Index(m))
	}

	hits, total, err := index.Search(context.Background(), charette, "schools", 10)
	req.NoError(err)

	req.Equal(uint64(2), total)
	req.Len(hits, 2)
	for _, hit := range hits {
		req.Contains(hit.Content, "schools")
		req.NotEmpty(hit.Author)
	}
}

func Test_Search_ScopedToCharette(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	charette := uuid.NewString()
	other := uuid.NewString()
	at := time.Now().UTC()

	req.NoError(index.Index(ArchivedMessage{ID: uuid.New(), Charette: charette, Room: "main", Author: "Ann", Content: "budget talks", At: at}))
	req.NoError(index.Index(ArchivedMessage{ID: uuid.New(), Charette: other, Room: "main", Author: "Bob", Content: "budget talks", At: at}))

	hits, total, err := index.Search(context.Background(), charette, "budget", 10)
	req.NoError(err)

	req.Equal(uint64(1), total)
	req.Len(hits, 1)
	req.Equal("Ann", hits[0].Author)
}

func Test_Search_Limit(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	charette := uuid.NewString()
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		req.NoError(index.Index(ArchivedMessage{
			ID: uuid.New(), Charette: charette, Room: "main", Author: "Ann",
			Content: "housing is the main concern", At: at,
		}))
	}

	hits, total, err := index.Search(context.Background(), charette, "housing", 2)
	req.NoError(err)

	req.Equal(uint64(5), total)
	req.Len(hits, 2)
}

func Test_Index_SameID_Overwrites(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	charette := uuid.NewString()
	id := uuid.New()
	at := time.Now().UTC()

	req.NoError(index.Index(ArchivedMessage{ID: id, Charette: charette, Room: "main", Author: "Ann", Content: "draft wording", At: at}))
	req.NoError(index.Index(ArchivedMessage{ID: id, Charette: charette, Room: "main", Author: "Ann", Content: "final wording", At: at}))

	hits, total, err := index.Search(context.Background(), charette, "wording", 10)
	req.NoError(err)

	req.Equal(uint64(1), total)
	req.Len(hits, 1)
	req.Equal("final wording", hits[0].Content)
}
