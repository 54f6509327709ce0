package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glasscode-quiz-service/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestValidateQuestionChoiceBased(t *testing.T) {
	q := domain.Question{
		ID:            1,
		Type:          domain.MultipleChoice,
		Text:          "What keyword declares a variable?",
		Choices:       []string{"var", "let", "def"},
		CorrectAnswer: intPtr(0),
	}
	require.NoError(t, ValidateQuestion(q))

	missing := q
	missing.Text = ""
	assert.ErrorIs(t, ValidateQuestion(missing), domain.ErrInvalidQuestion)

	oneChoice := q
	oneChoice.Choices = []string{"var"}
	oneChoice.CorrectAnswer = intPtr(0)
	assert.ErrorIs(t, ValidateQuestion(oneChoice), domain.ErrInvalidQuestion)

	noCorrect := q
	noCorrect.CorrectAnswer = nil
	assert.ErrorIs(t, ValidateQuestion(noCorrect), domain.ErrInvalidQuestion)

	outOfRange := q
	outOfRange.CorrectAnswer = intPtr(7)
	assert.ErrorIs(t, ValidateQuestion(outOfRange), domain.ErrInvalidQuestion)
}

func TestValidateQuestionOpenEnded(t *testing.T) {
	q := domain.Question{
		ID:              2,
		Type:            domain.OpenEnded,
		Text:            "Name the Go keyword for loops.",
		AcceptedAnswers: []string{"for"},
	}
	require.NoError(t, ValidateQuestion(q))

	blankOnly := q
	blankOnly.AcceptedAnswers = []string{"   ", ""}
	assert.ErrorIs(t, ValidateQuestion(blankOnly), domain.ErrInvalidQuestion)

	empty := q
	empty.AcceptedAnswers = nil
	assert.ErrorIs(t, ValidateQuestion(empty), domain.ErrInvalidQuestion)
}

func TestNormalizeQuestion(t *testing.T) {
	q := domain.Question{
		ID:              3,
		Text:            "Spell the boolean type.",
		AcceptedAnswers: []string{"  Bool ", "BOOLEAN", "", "  "},
	}
	got := NormalizeQuestion(q)

	assert.Equal(t, []string{"bool", "boolean"}, got.AcceptedAnswers)
	assert.Equal(t, domain.MultipleChoice, got.Type, "missing type defaults to multiple choice")
}

func TestFilterValidDropsBrokenQuestions(t *testing.T) {
	pool := []domain.Question{
		{ID: 1, Type: domain.MultipleChoice, Text: "ok", Choices: []string{"a", "b"}, CorrectAnswer: intPtr(1)},
		{ID: 2, Type: domain.MultipleChoice, Text: "broken", Choices: []string{"a", "b"}, CorrectAnswer: intPtr(5)},
		{ID: 3, Type: domain.OpenEnded, Text: "ok", AcceptedAnswers: []string{"  YES "}},
		{ID: 4, Type: domain.OpenEnded, Text: "broken", AcceptedAnswers: []string{"   "}},
	}

	valid, dropped := FilterValid(pool)

	require.Len(t, valid, 2)
	assert.Equal(t, []int{2, 4}, dropped)
	assert.Equal(t, []string{"yes"}, valid[1].AcceptedAnswers, "accepted answers normalized during filtering")
}

func TestValidateQuestionWrapsSentinel(t *testing.T) {
	err := ValidateQuestion(domain.Question{ID: 9})
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected wrapped ErrInvalidQuestion, got %v", err)
	}
}
