//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_archive.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageArchive interface {
	StoreMessage(message ArchivedMessage) error
	GetMessages(charette, room string, cursor *string) ([]ArchivedMessage, *string, error)
}

// MessageArchive persists every delivered message in BadgerDB. The live
// store stays authoritative; the archive feeds the viewer CLI and the
// full-text index and survives restarts.
type MessageArchive struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageArchive(db *badger.DB, log *slog.Logger, limitMessages *int) MessageArchive {
	return MessageArchive{db: db, log: log, limitMessages: limitMessages}
}

type ArchivedMessage struct {
	ID       uuid.UUID `json:"id"`
	Charette string    `json:"charette"`
	Room     string    `json:"room"`
	Author   string    `json:"author"`
	Role     string    `json:"role"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

// ArchivePrefix is the key namespace shared with the viewer CLI.
const ArchivePrefix = "msg:"

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{charette}:{room}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting per (charette, room) using 19-digit zero
//     padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func (m MessageArchive) StoreMessage(message ArchivedMessage) error {
	key := fmt.Sprintf("%s%s:%s:%019d:%s",
		ArchivePrefix,
		message.Charette,
		message.Room,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := sonic.Marshal(message)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves archived messages for one room of a charette using
// a prefix scan, newest first. Thanks to the padded timestamp in the key,
// messages are naturally sorted by time. It stops collecting once the
// configured limitMessages is reached; the returned cursor resumes the scan.
func (m MessageArchive) GetMessages(charette, room string, cursor *string) ([]ArchivedMessage, *string, error) {
	var rawMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("%s%s:%s:", ArchivePrefix, charette, room)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]ArchivedMessage, 0, len(rawMessages))
	for _, b := range rawMessages {
		var message ArchivedMessage
		if err = sonic.Unmarshal(b, &message); err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}
