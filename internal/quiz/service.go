package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glasscode-quiz-service/internal/domain"
	"glasscode-quiz-service/internal/validator"
)

// SessionRepository abstracts where quiz sessions live (in-memory, Redis, etc).
// A missing session is reported as domain.ErrSessionNotFound, never as an
// empty session.
type SessionRepository interface {
	Save(ctx context.Context, moduleKey string, session domain.QuizSession) error
	Get(ctx context.Context, moduleKey string) (domain.QuizSession, error)
	RecordAnswer(ctx context.Context, moduleKey string, index int, record domain.AnswerRecord) error
	Clear(ctx context.Context, moduleKey string) error
}

// HistoryRepository tracks recently seen question IDs per module, newest
// first, capped by the implementation.
type HistoryRepository interface {
	Recent(ctx context.Context, moduleKey string) ([]int, error)
	Push(ctx context.Context, moduleKey string, ids []int) error
}

// ContentRegistry resolves curriculum content by module slug.
type ContentRegistry interface {
	GetModule(ctx context.Context, slug string) (domain.Module, error)
	GetModuleQuiz(ctx context.Context, slug string) (domain.Quiz, error)
	GetModuleLessons(ctx context.Context, slug string) ([]domain.Lesson, error)
	CheckModuleThresholds(ctx context.Context, slug string) (domain.ThresholdStatus, error)
}

// ProgressReporter receives completion results for cross-session tracking.
// Reporting is best effort; failures are logged, never surfaced to the learner.
type ProgressReporter interface {
	ReportCompletion(ctx context.Context, moduleKey string, completion domain.Completion) error
}

// Settings carry the defaults applied when a module does not pin its own.
type Settings struct {
	TargetQuestions int
	PassingScore    int
}

// DefaultSettings mirror the curriculum-wide defaults of the academy content.
func DefaultSettings() Settings {
	return Settings{TargetQuestions: 14, PassingScore: 70}
}

// Service drives the lifecycle of one quiz attempt per module key.
type Service struct {
	registry  ContentRegistry
	sessions  SessionRepository
	histories HistoryRepository
	reporter  ProgressReporter
	selector  *Selector
	shuffler  *ChoiceShuffler
	settings  Settings
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewService wires the quiz use cases. reporter may be nil when progress
// tracking is disabled.
func NewService(
	registry ContentRegistry,
	sessions SessionRepository,
	histories HistoryRepository,
	reporter ProgressReporter,
	selector *Selector,
	shuffler *ChoiceShuffler,
	settings Settings,
	log *zap.SugaredLogger,
) *Service {
	if selector == nil {
		selector = NewSelector(nil)
	}
	if shuffler == nil {
		shuffler = NewChoiceShuffler(nil)
	}
	if settings.TargetQuestions <= 0 {
		settings.TargetQuestions = DefaultSettings().TargetQuestions
	}
	if settings.PassingScore <= 0 {
		settings.PassingScore = DefaultSettings().PassingScore
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		registry:  registry,
		sessions:  sessions,
		histories: histories,
		reporter:  reporter,
		selector:  selector,
		shuffler:  shuffler,
		settings:  settings,
		now:       time.Now,
		log:       log,
	}
}

// WithClock overrides the time source; test-only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start builds and persists a fresh session for the module, replacing any
// previous attempt. Selected question IDs are pushed onto the module history
// so the next attempt is biased toward unseen questions.
func (s *Service) Start(ctx context.Context, slug string) (domain.QuizSession, error) {
	module, err := s.registry.GetModule(ctx, slug)
	if err != nil {
		return domain.QuizSession{}, err
	}

	moduleQuiz, err := s.registry.GetModuleQuiz(ctx, slug)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if len(moduleQuiz.Questions) == 0 {
		return domain.QuizSession{}, domain.ErrQuizUnavailable
	}

	status, err := s.registry.CheckModuleThresholds(ctx, slug)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if !status.QuizValid {
		return domain.QuizSession{}, domain.ErrQuizUnavailable
	}

	pool, dropped := validator.FilterValid(moduleQuiz.Questions)
	if len(dropped) > 0 {
		s.log.Warnw("dropped invalid questions from pool", "module", slug, "ids", dropped)
	}
	if len(pool) == 0 {
		return domain.QuizSession{}, domain.ErrQuizUnavailable
	}

	history, err := s.histories.Recent(ctx, slug)
	if err != nil {
		s.log.Warnw("question history unavailable, selecting from full pool", "module", slug, "err", err)
		history = nil
	}

	target := module.TargetQuestions(s.settings.TargetQuestions)
	selected := s.selector.Select(pool, target, history)
	for i, q := range selected {
		selected[i] = s.shuffler.Shuffle(q)
	}

	session := domain.QuizSession{
		AttemptID:      uuid.NewString(),
		ModuleSlug:     slug,
		Questions:      selected,
		TotalQuestions: len(selected),
		PassingScore:   module.PassingScore(s.settings.PassingScore),
		TimeLimit:      timeLimitMinutes(len(selected)),
		StartedAt:      s.now(),
		Answers:        make([]*domain.AnswerRecord, len(selected)),
	}

	if err := s.sessions.Save(ctx, slug, session); err != nil {
		return domain.QuizSession{}, err
	}

	if err := s.histories.Push(ctx, slug, QuestionIDs(selected)); err != nil {
		s.log.Warnw("failed to update question history", "module", slug, "err", err)
	}

	return session, nil
}

// Get returns the in-flight session for a module.
func (s *Service) Get(ctx context.Context, slug string) (domain.QuizSession, error) {
	return s.sessions.Get(ctx, slug)
}

// SubmitAnswer evaluates and records one answer. Submitting the same index
// twice overwrites the earlier record. A persistence failure is logged and
// the evaluated record still returned; losing one write must not crash an
// attempt in progress.
func (s *Service) SubmitAnswer(ctx context.Context, slug string, index int, sub domain.AnswerSubmission) (domain.AnswerRecord, error) {
	session, err := s.sessions.Get(ctx, slug)
	if err != nil {
		return domain.AnswerRecord{}, err
	}
	if index < 0 || index >= len(session.Questions) {
		return domain.AnswerRecord{}, domain.ErrQuestionIndexOutOfRange
	}

	record := EvaluateAnswer(session.Questions[index], sub)
	if err := s.sessions.RecordAnswer(ctx, slug, index, record); err != nil {
		s.log.Warnw("failed to persist answer", "module", slug, "index", index, "err", err)
	}
	return record, nil
}

// Finish scores the session and, on a pass, reports completion to the
// progress tracker. Timer expiry and a learner-initiated finish take the same
// path; the scorer cannot tell them apart.
func (s *Service) Finish(ctx context.Context, slug string) (domain.ResultsSummary, error) {
	session, err := s.sessions.Get(ctx, slug)
	if err != nil {
		return domain.ResultsSummary{}, err
	}

	summary, err := Score(session)
	if err != nil {
		return domain.ResultsSummary{}, err
	}
	summary.TimeTaken = s.now().Sub(session.StartedAt)

	if summary.Passed && s.reporter != nil {
		completion := domain.Completion{QuizScore: summary.Score}
		if lessons, err := s.registry.GetModuleLessons(ctx, slug); err == nil && len(lessons) > 0 {
			completion.TotalLessons = len(lessons)
			completion.LessonsCompleted = len(lessons)
		} else if err != nil && !errors.Is(err, domain.ErrModuleNotFound) {
			s.log.Warnw("unable to load lessons for completion update", "module", slug, "err", err)
		}
		if err := s.reporter.ReportCompletion(ctx, slug, completion); err != nil {
			s.log.Warnw("failed to report completion", "module", slug, "err", err)
		}
	}

	return summary, nil
}

// Retake clears the stored session so the next Start begins fresh.
func (s *Service) Retake(ctx context.Context, slug string) error {
	return s.sessions.Clear(ctx, slug)
}

// timeLimitMinutes gives 90 seconds per question, clamped to [10, 45] minutes.
func timeLimitMinutes(questions int) int {
	limit := (questions*3 + 1) / 2
	if limit < 10 {
		limit = 10
	}
	if limit > 45 {
		limit = 45
	}
	return limit
}
