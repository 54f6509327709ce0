package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"glasscode-quiz-service/internal/domain"
)

// ContentLoader fetches a module's full content bundle from a backing store.
type ContentLoader interface {
	LoadModuleContent(ctx context.Context, slug string) (domain.ModuleContent, error)
}

// StaticContentLoader serves bundles from an in-memory map (tests/demos).
type StaticContentLoader struct {
	modules map[string]domain.ModuleContent
}

func NewStaticContentLoader(modules map[string]domain.ModuleContent) *StaticContentLoader {
	return &StaticContentLoader{modules: modules}
}

func (l *StaticContentLoader) LoadModuleContent(_ context.Context, slug string) (domain.ModuleContent, error) {
	if content, ok := l.modules[slug]; ok {
		return content, nil
	}
	return domain.ModuleContent{}, domain.ErrModuleNotFound
}

// ContentRegistry implements quiz.ContentRegistry on top of a loader, caching
// bundles with TTL to avoid repeated backing-store hits.
type ContentRegistry struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedContent
}

type cachedContent struct {
	content   domain.ModuleContent
	expiresAt time.Time
}

func NewContentRegistry(loader ContentLoader, ttl time.Duration) *ContentRegistry {
	return &ContentRegistry{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedContent),
	}
}

func (r *ContentRegistry) GetModule(ctx context.Context, slug string) (domain.Module, error) {
	content, err := r.bundle(ctx, slug)
	if err != nil {
		return domain.Module{}, err
	}
	return content.Module, nil
}

func (r *ContentRegistry) GetModuleQuiz(ctx context.Context, slug string) (domain.Quiz, error) {
	content, err := r.bundle(ctx, slug)
	if err != nil {
		return domain.Quiz{}, err
	}
	return content.Quiz, nil
}

func (r *ContentRegistry) GetModuleLessons(ctx context.Context, slug string) ([]domain.Lesson, error) {
	content, err := r.bundle(ctx, slug)
	if err != nil {
		return nil, err
	}
	return content.Lessons, nil
}

// CheckModuleThresholds reports whether the module's content meets its own
// minimums. An empty pool is always invalid, never a zero-question quiz.
func (r *ContentRegistry) CheckModuleThresholds(ctx context.Context, slug string) (domain.ThresholdStatus, error) {
	content, err := r.bundle(ctx, slug)
	if err != nil {
		return domain.ThresholdStatus{}, err
	}
	questions := len(content.Quiz.Questions)
	lessons := len(content.Lessons)
	return domain.ThresholdStatus{
		QuizValid:    questions > 0 && questions >= content.Module.Thresholds.RequiredQuestions,
		LessonsValid: lessons >= content.Module.Thresholds.RequiredLessons,
	}, nil
}

func (r *ContentRegistry) bundle(ctx context.Context, slug string) (domain.ModuleContent, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[slug]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.content, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(slug, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[slug]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.content, nil
		}
		r.mu.RUnlock()

		content, err := r.loader.LoadModuleContent(ctx, slug)
		if err != nil {
			return domain.ModuleContent{}, err
		}

		r.mu.Lock()
		r.cache[slug] = cachedContent{
			content:   content,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return domain.ModuleContent{}, err
	}
	return result.(domain.ModuleContent), nil
}

func (r *ContentRegistry) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
