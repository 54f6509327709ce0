package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glasscode-quiz-service/internal/domain"
)

func mcQuestion(correct int, choices ...string) domain.Question {
	return domain.Question{
		ID:            1,
		Type:          domain.MultipleChoice,
		Text:          "pick one",
		Choices:       choices,
		CorrectAnswer: &correct,
	}
}

func TestShuffleKeepsCorrectChoiceText(t *testing.T) {
	original := mcQuestion(2, "alpha", "beta", "gamma", "delta", "epsilon")

	for seed := int64(0); seed < 50; seed++ {
		shuffler := NewChoiceShuffler(rand.New(rand.NewSource(seed)))
		shuffled := shuffler.Shuffle(original)

		require.NotNil(t, shuffled.CorrectAnswer)
		assert.Equal(t,
			original.Choices[*original.CorrectAnswer],
			shuffled.Choices[*shuffled.CorrectAnswer],
			"seed %d moved the correct answer", seed)
		assert.ElementsMatch(t, original.Choices, shuffled.Choices)
	}
}

func TestShuffleNoOpForFixedOrder(t *testing.T) {
	q := mcQuestion(1, "1-10", "11-20", "21-30")
	q.FixedChoiceOrder = true

	shuffled := NewChoiceShuffler(rand.New(rand.NewSource(1))).Shuffle(q)

	assert.Equal(t, q.Choices, shuffled.Choices)
	assert.Equal(t, *q.CorrectAnswer, *shuffled.CorrectAnswer)
}

func TestShuffleNoOpForNonMultipleChoice(t *testing.T) {
	q := domain.Question{
		ID:              2,
		Type:            domain.OpenEnded,
		Text:            "name it",
		AcceptedAnswers: []string{"for"},
	}

	shuffled := NewChoiceShuffler(rand.New(rand.NewSource(1))).Shuffle(q)

	assert.Equal(t, q, shuffled)
}

func TestShuffleNoOpForSingleChoice(t *testing.T) {
	q := mcQuestion(0, "only")

	shuffled := NewChoiceShuffler(rand.New(rand.NewSource(1))).Shuffle(q)

	assert.Equal(t, q.Choices, shuffled.Choices)
}

func TestShuffleLeavesOutOfBoundsCorrectAnswerAlone(t *testing.T) {
	// A malformed correct index must not be silently repointed at choice 0;
	// the question is left untouched instead.
	q := mcQuestion(7, "a", "b", "c")

	shuffled := NewChoiceShuffler(rand.New(rand.NewSource(1))).Shuffle(q)

	assert.Equal(t, q.Choices, shuffled.Choices)
	assert.Equal(t, 7, *shuffled.CorrectAnswer)

	q.CorrectAnswer = nil
	shuffled = NewChoiceShuffler(rand.New(rand.NewSource(1))).Shuffle(q)
	assert.Nil(t, shuffled.CorrectAnswer)
	assert.Equal(t, q.Choices, shuffled.Choices)
}
