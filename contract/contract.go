//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"charette-lab/domain"
	"charette-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives broadcast events. Consume must not block: slow
// transports buffer internally and drop, they never stall the router.
type EventSink interface {
	Consume(e event.DomainEvent) error
}

// IRegistry maps live connections to broadcast groups. A group is either a
// whole session or one breakout room of a session.
type IRegistry interface {
	Subscribe(connID, group string, sink EventSink)
	JoinGroup(connID, group string)
	LeaveGroup(connID, group string)
	Unsubscribe(connID string)
	SinksFor(group string) []EventSink
}

// IStore owns every session record. All mutations of one session are
// serialized; distinct sessions proceed in parallel.
type IStore interface {
	CreateSession(title, description string) domain.Session
	GetSession(id string) (domain.Session, error)
	ListSessions() []domain.Session
	UpsertParticipant(id, userName, role string) (domain.Participant, error)
	AppendMessage(id, roomID, text, userName, role string) (domain.Message, error)
	ListMessages(id, roomID string) ([]domain.Message, error)
	ReplaceRooms(id string, count int, questions []string) ([]domain.BreakoutRoom, error)
	JoinRoom(id, roomID, userName string) (domain.BreakoutRoom, error)
	LeaveRoom(id, roomID, userName string) (domain.BreakoutRoom, error)
	AdvancePhase(id string) (int, error)
	AddAnalysis(id string, entry domain.AnalysisEntry) (domain.AnalysisEntry, error)
}
