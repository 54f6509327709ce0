package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"glasscode-quiz-service/internal/domain"
)

var validate = validator.New()

// ValidateQuestion checks the structural invariants of a single question:
// choice-based questions need at least two choices and an in-range correct
// index; open-ended questions need a non-empty accepted-answer set after
// normalization.
func ValidateQuestion(q domain.Question) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuestion, err)
	}

	if q.IsOpenEnded() {
		if len(normalizeAccepted(q.AcceptedAnswers)) == 0 {
			return fmt.Errorf("%w: open-ended question %d has no accepted answers", domain.ErrInvalidQuestion, q.ID)
		}
		return nil
	}

	if len(q.Choices) < 2 {
		return fmt.Errorf("%w: question %d needs at least 2 choices", domain.ErrInvalidQuestion, q.ID)
	}
	if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Choices) {
		return fmt.Errorf("%w: question %d has no valid correct answer index", domain.ErrInvalidQuestion, q.ID)
	}
	return nil
}

// NormalizeQuestion prepares a question for use: accepted answers are trimmed,
// lowercased, and emptied-out entries dropped so an empty submission can never
// accidentally match.
func NormalizeQuestion(q domain.Question) domain.Question {
	if len(q.AcceptedAnswers) > 0 {
		q.AcceptedAnswers = normalizeAccepted(q.AcceptedAnswers)
	}
	if q.Type == "" {
		q.Type = domain.MultipleChoice
	}
	return q
}

// FilterValid normalizes a pool and drops questions that fail validation.
// Invalid questions shrink the pool silently; they are a content problem, not
// a learner-facing error.
func FilterValid(pool []domain.Question) (valid []domain.Question, dropped []int) {
	valid = make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		q = NormalizeQuestion(q)
		if err := ValidateQuestion(q); err != nil {
			dropped = append(dropped, q.ID)
			continue
		}
		valid = append(valid, q)
	}
	return valid, dropped
}

func normalizeAccepted(answers []string) []string {
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
