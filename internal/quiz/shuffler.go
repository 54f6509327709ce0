package quiz

import (
	"math/rand"
	"time"

	"glasscode-quiz-service/internal/domain"
)

// ChoiceShuffler randomizes displayed choice order while keeping the correct
// choice semantically intact.
type ChoiceShuffler struct {
	rnd *rand.Rand
}

// NewChoiceShuffler builds a ChoiceShuffler. A nil rand is time-seeded.
func NewChoiceShuffler(rnd *rand.Rand) *ChoiceShuffler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ChoiceShuffler{rnd: rnd}
}

// Shuffle returns q with its choices permuted and CorrectAnswer remapped to
// the new position of the original correct choice.
//
// It is a no-op for fixed-order questions, non-multiple-choice questions, and
// pools of one choice or fewer. A CorrectAnswer index that does not fall
// inside Choices is treated as fixed order and left untouched rather than
// silently repointed at choice zero.
func (s *ChoiceShuffler) Shuffle(q domain.Question) domain.Question {
	if q.FixedChoiceOrder || q.Type != domain.MultipleChoice || len(q.Choices) <= 1 {
		return q
	}
	if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Choices) {
		return q
	}

	perm := s.rnd.Perm(len(q.Choices))
	shuffled := make([]string, len(q.Choices))
	newCorrect := *q.CorrectAnswer
	for newIdx, oldIdx := range perm {
		shuffled[newIdx] = q.Choices[oldIdx]
		if oldIdx == *q.CorrectAnswer {
			newCorrect = newIdx
		}
	}

	q.Choices = shuffled
	q.CorrectAnswer = &newCorrect
	return q
}
