package quiz

import (
	"math/rand"
	"time"

	"glasscode-quiz-service/internal/domain"
)

// HistoryLimit caps how many recently seen question IDs are kept per module.
const HistoryLimit = 200

// Selector draws a shuffled subset of a question pool, biased away from
// recently seen questions.
type Selector struct {
	rnd *rand.Rand
}

// NewSelector builds a Selector. Pass a seeded rand for deterministic tests;
// nil falls back to a time-seeded source.
func NewSelector(rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rnd: rnd}
}

// Select returns up to target questions drawn from pool without repeats.
//
// Questions whose ID appears in history are dropped first; if that leaves
// fewer than target, the full pool is used instead. The history is advisory
// and never causes selection to fail. The pool itself is not mutated; the
// caller is responsible for pushing the returned IDs onto the history.
func (s *Selector) Select(pool []domain.Question, target int, history []int) []domain.Question {
	if target <= 0 || len(pool) == 0 {
		return nil
	}

	recent := make(map[int]struct{}, len(history))
	for _, id := range history {
		recent[id] = struct{}{}
	}

	available := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if _, seen := recent[q.ID]; !seen {
			available = append(available, q)
		}
	}
	if len(available) < target {
		available = append(available[:0:0], pool...)
	}

	s.rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if target > len(available) {
		target = len(available)
	}
	return available[:target]
}

// QuestionIDs projects the IDs of a selected set, newest-first ordering is the
// caller's concern.
func QuestionIDs(questions []domain.Question) []int {
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
