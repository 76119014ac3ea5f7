package sink

import (
	"fmt"
	"log/slog"

	"charette-lab/domain/event"
	"charette-lab/repositories"
)

// ArchiveSink persists delivered messages to the badger archive and the
// full-text index. Wired as a permanent sink behind the fanout worker so
// disk latency never touches the router.
type ArchiveSink struct {
	archive repositories.IMessageArchive
	index   *repositories.MessageIndex
	log     *slog.Logger
}

func NewArchiveSink(archive repositories.IMessageArchive, index *repositories.MessageIndex, log *slog.Logger) ArchiveSink {
	return ArchiveSink{archive: archive, index: index, log: log}
}

func (s ArchiveSink) Consume(e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		archived := toArchivedMessage(evt)
		if err := s.archive.StoreMessage(archived); err != nil {
			return err
		}
		if s.index != nil {
			return s.index.Index(archived)
		}
		return nil
	default:
		s.log.Debug(fmt.Sprintf("Not archived event : %v", evt))
		return nil
	}
}

func toArchivedMessage(evt event.MessagePosted) repositories.ArchivedMessage {
	return repositories.ArchivedMessage{
		ID:       evt.Message.ID,
		Charette: evt.Charette,
		Room:     evt.Message.RoomID,
		Author:   evt.Message.UserName,
		Role:     evt.Message.Role,
		Content:  evt.Message.Text,
		At:       evt.Message.Timestamp,
	}
}
