package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"glasscode-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of quiz.SessionRepository,
// used in tests and single-instance deployments.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.QuizSession
	log      *zap.SugaredLogger
}

func NewSessionStore(log *zap.SugaredLogger) *SessionStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SessionStore{
		sessions: make(map[string]domain.QuizSession),
		log:      log,
	}
}

func (s *SessionStore) Save(_ context.Context, moduleKey string, session domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[moduleKey] = cloneSession(session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, moduleKey string) (domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[moduleKey]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// RecordAnswer overwrites the answer slot for one question index. Recording
// against a missing session is a logged no-op; a late write must not take an
// attempt down.
func (s *SessionStore) RecordAnswer(_ context.Context, moduleKey string, index int, record domain.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[moduleKey]
	if !ok {
		s.log.Warnw("answer dropped, no session", "module", moduleKey, "index", index)
		return nil
	}
	if index < 0 || index >= len(session.Answers) {
		return domain.ErrQuestionIndexOutOfRange
	}
	rec := record
	session.Answers[index] = &rec
	s.sessions[moduleKey] = session
	return nil
}

func (s *SessionStore) Clear(_ context.Context, moduleKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, moduleKey)
	return nil
}

// cloneSession copies the answer slice so callers cannot alias stored state.
func cloneSession(session domain.QuizSession) domain.QuizSession {
	answers := make([]*domain.AnswerRecord, len(session.Answers))
	for i, a := range session.Answers {
		if a != nil {
			rec := *a
			answers[i] = &rec
		}
	}
	session.Answers = answers
	session.Questions = append([]domain.Question(nil), session.Questions...)
	return session
}
