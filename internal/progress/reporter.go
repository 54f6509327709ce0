package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"glasscode-quiz-service/internal/domain"
)

// DefaultTopic carries module completion events.
const DefaultTopic = "quiz.completions"

// CompletionEvent is the wire shape published when a learner passes a quiz.
type CompletionEvent struct {
	ID               string    `json:"id"`
	ModuleSlug       string    `json:"moduleSlug"`
	QuizScore        int       `json:"quizScore"`
	LessonsCompleted int       `json:"lessonsCompleted,omitempty"`
	TotalLessons     int       `json:"totalLessons,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Reporter publishes completion events to a message bus. It implements
// quiz.ProgressReporter; delivery is fire-and-forget from the learner's point
// of view — the caller logs failures and moves on.
type Reporter struct {
	publisher message.Publisher
	topic     string
	now       func() time.Time
}

func NewReporter(publisher message.Publisher, topic string) *Reporter {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Reporter{publisher: publisher, topic: topic, now: time.Now}
}

func (r *Reporter) ReportCompletion(_ context.Context, moduleKey string, completion domain.Completion) error {
	event := CompletionEvent{
		ID:               watermill.NewUUID(),
		ModuleSlug:       moduleKey,
		QuizScore:        completion.QuizScore,
		LessonsCompleted: completion.LessonsCompleted,
		TotalLessons:     completion.TotalLessons,
		OccurredAt:       r.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("module", moduleKey)
	if err := r.publisher.Publish(r.topic, msg); err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}
	return nil
}

// Consume subscribes to completion events and logs them until ctx is
// cancelled. In a full deployment this is where cross-session progress
// persistence would hang off the bus.
func Consume(ctx context.Context, subscriber message.Subscriber, topic string, log *zap.SugaredLogger) error {
	if topic == "" {
		topic = DefaultTopic
	}
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe completions: %w", err)
	}
	go func() {
		for msg := range messages {
			var event CompletionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Warnw("malformed completion event", "err", err)
				msg.Ack()
				continue
			}
			log.Infow("module completed",
				"module", event.ModuleSlug,
				"score", event.QuizScore,
				"lessons", event.LessonsCompleted,
			)
			msg.Ack()
		}
	}()
	return nil
}
