package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"glasscode-quiz-service/internal/domain"
)

// SessionStore persists quiz sessions as one JSON value per module key so an
// attempt survives process restarts. A single owner drives one attempt at a
// time; two owners on the same key are last-write-wins by design.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *SessionStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SessionStore{client: client, ttl: ttl, log: log}
}

func (s *SessionStore) Save(ctx context.Context, moduleKey string, session domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(moduleKey), data, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, moduleKey string) (domain.QuizSession, error) {
	raw, err := s.client.Get(ctx, s.key(moduleKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("load session: %w", err)
	}
	var session domain.QuizSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.QuizSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

// RecordAnswer is a read-modify-write of one answer slot. Recording against a
// missing session is a logged no-op.
func (s *SessionStore) RecordAnswer(ctx context.Context, moduleKey string, index int, record domain.AnswerRecord) error {
	session, err := s.Get(ctx, moduleKey)
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.log.Warnw("answer dropped, no session", "module", moduleKey, "index", index)
		return nil
	}
	if err != nil {
		return err
	}
	if index < 0 || index >= len(session.Answers) {
		return domain.ErrQuestionIndexOutOfRange
	}
	session.Answers[index] = &record
	return s.Save(ctx, moduleKey, session)
}

func (s *SessionStore) Clear(ctx context.Context, moduleKey string) error {
	return s.client.Del(ctx, s.key(moduleKey)).Err()
}

func (s *SessionStore) key(moduleKey string) string {
	return "quiz:session:" + moduleKey
}
