package services

import (
	"context"

	"charette-lab/contract"
	"charette-lab/domain"
	"charette-lab/report"
	"charette-lab/repositories"
	"charette-lab/runtime"
)

// ICharetteService is the single seam the transport layer talks to. It
// hides whether an operation is a synchronous store read or a routed
// broadcast event.
type ICharetteService interface {
	CreateCharette(title, description string) domain.Session
	GetCharette(id string) (domain.Session, error)
	ListCharettes() []domain.Session
	UpsertParticipant(id, userName, role string) (domain.Participant, error)
	ListMessages(id, roomID string) ([]domain.Message, error)
	AddAnalysis(id string, entry domain.AnalysisEntry) (domain.AnalysisEntry, error)
	GenerateReport(id string) (domain.Report, error)
	SearchMessages(ctx context.Context, id, terms string, limit int) ([]repositories.SearchHit, uint64, error)

	Subscribe(connID, sessionID string, sink contract.EventSink)
	Unsubscribe(connID string)
	PostMessage(sessionID, roomID, text, userName, role string) (domain.Message, error)
	AdvancePhase(sessionID string)
	JoinBreakoutRoom(connID, sessionID, roomID, userName string)
	LeaveBreakoutRoom(connID, sessionID, roomID, userName string)
	CreateBreakoutRooms(sessionID string, count int, questions []string)
}

type CharetteService struct {
	store       contract.IStore
	router      *runtime.Router
	synthesizer *report.Synthesizer
	index       *repositories.MessageIndex
}

func NewCharetteService(store contract.IStore, router *runtime.Router,
	synthesizer *report.Synthesizer, index *repositories.MessageIndex) *CharetteService {
	return &CharetteService{store: store, router: router, synthesizer: synthesizer, index: index}
}

func (s *CharetteService) CreateCharette(title, description string) domain.Session {
	return s.store.CreateSession(title, description)
}

func (s *CharetteService) GetCharette(id string) (domain.Session, error) {
	return s.store.GetSession(id)
}

func (s *CharetteService) ListCharettes() []domain.Session {
	return s.store.ListSessions()
}

func (s *CharetteService) UpsertParticipant(id, userName, role string) (domain.Participant, error) {
	return s.store.UpsertParticipant(id, userName, role)
}

func (s *CharetteService) ListMessages(id, roomID string) ([]domain.Message, error) {
	return s.store.ListMessages(id, roomID)
}

func (s *CharetteService) AddAnalysis(id string, entry domain.AnalysisEntry) (domain.AnalysisEntry, error) {
	return s.store.AddAnalysis(id, entry)
}

func (s *CharetteService) GenerateReport(id string) (domain.Report, error) {
	return s.synthesizer.Generate(id)
}

// SearchMessages queries the archive index; the charette must exist even
// though the index itself would simply return no hits.
func (s *CharetteService) SearchMessages(ctx context.Context, id, terms string, limit int) ([]repositories.SearchHit, uint64, error) {
	if _, err := s.store.GetSession(id); err != nil {
		return nil, 0, err
	}
	return s.index.Search(ctx, id, terms, limit)
}

func (s *CharetteService) Subscribe(connID, sessionID string, sink contract.EventSink) {
	s.router.Subscribe(connID, sessionID, sink)
}

func (s *CharetteService) Unsubscribe(connID string) {
	s.router.Unsubscribe(connID)
}

func (s *CharetteService) PostMessage(sessionID, roomID, text, userName, role string) (domain.Message, error) {
	return s.router.PostMessage(sessionID, roomID, text, userName, role)
}

func (s *CharetteService) AdvancePhase(sessionID string) {
	s.router.AdvancePhase(sessionID)
}

func (s *CharetteService) JoinBreakoutRoom(connID, sessionID, roomID, userName string) {
	s.router.JoinBreakoutRoom(connID, sessionID, roomID, userName)
}

func (s *CharetteService) LeaveBreakoutRoom(connID, sessionID, roomID, userName string) {
	s.router.LeaveBreakoutRoom(connID, sessionID, roomID, userName)
}

func (s *CharetteService) CreateBreakoutRooms(sessionID string, count int, questions []string) {
	s.router.CreateBreakoutRooms(sessionID, count, questions)
}
