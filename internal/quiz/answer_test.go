package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"glasscode-quiz-service/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestEvaluateMultipleChoice(t *testing.T) {
	q := mcQuestion(1, "red", "green", "blue")

	record := EvaluateAnswer(q, domain.AnswerSubmission{SelectedIndex: intPtr(1)})
	assert.True(t, record.Correct)
	assert.Equal(t, 1, *record.SelectedIndex)

	record = EvaluateAnswer(q, domain.AnswerSubmission{SelectedIndex: intPtr(0)})
	assert.False(t, record.Correct)

	record = EvaluateAnswer(q, domain.AnswerSubmission{})
	assert.False(t, record.Correct, "no selection is never correct")
}

func TestEvaluateOpenEndedMatchesCaseInsensitiveTrimmed(t *testing.T) {
	q := domain.Question{
		ID:              1,
		Type:            domain.OpenEnded,
		Text:            "loop keyword?",
		AcceptedAnswers: []string{"for"},
	}

	for _, input := range []string{"for", "FOR", "  For  "} {
		record := EvaluateAnswer(q, domain.AnswerSubmission{EnteredText: input})
		assert.True(t, record.Correct, "input %q should match", input)
	}

	record := EvaluateAnswer(q, domain.AnswerSubmission{EnteredText: "while"})
	assert.False(t, record.Correct)
}

func TestEvaluateOpenEndedEmptyNeverAccepted(t *testing.T) {
	// Even a malformed accepted-answer set containing an empty string must not
	// turn a blank submission into a correct one.
	q := domain.Question{
		ID:              1,
		Type:            domain.OpenEnded,
		Text:            "anything",
		AcceptedAnswers: []string{"", "answer"},
	}

	for _, input := range []string{"", "   ", "\t"} {
		record := EvaluateAnswer(q, domain.AnswerSubmission{EnteredText: input})
		assert.False(t, record.Correct, "blank input %q accepted", input)
	}
}

func TestEvaluateAcceptedAnswersImplyOpenEnded(t *testing.T) {
	// Questions typed loosely but carrying acceptedAnswers score as open-ended.
	q := domain.Question{
		ID:              1,
		Type:            domain.MultipleChoice,
		Text:            "hybrid",
		AcceptedAnswers: []string{"yes"},
	}

	record := EvaluateAnswer(q, domain.AnswerSubmission{EnteredText: "YES"})
	assert.True(t, record.Correct)
}
