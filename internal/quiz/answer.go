package quiz

import (
	"strings"

	"glasscode-quiz-service/internal/domain"
)

// EvaluateAnswer scores one submission against its question.
//
// Open-ended questions match the entered text against the accepted-answer set
// case-insensitively after trimming; an answer that is empty after trimming is
// never correct. All other types require the selected index to equal the
// question's correct answer. The function is pure; persisting the record is
// the caller's job.
func EvaluateAnswer(q domain.Question, sub domain.AnswerSubmission) domain.AnswerRecord {
	if q.IsOpenEnded() {
		candidate := strings.ToLower(strings.TrimSpace(sub.EnteredText))
		correct := false
		if candidate != "" {
			for _, accepted := range q.AcceptedAnswers {
				if candidate == strings.ToLower(strings.TrimSpace(accepted)) {
					correct = true
					break
				}
			}
		}
		return domain.AnswerRecord{EnteredText: sub.EnteredText, Correct: correct}
	}

	correct := sub.SelectedIndex != nil &&
		q.CorrectAnswer != nil &&
		*sub.SelectedIndex == *q.CorrectAnswer
	return domain.AnswerRecord{SelectedIndex: sub.SelectedIndex, Correct: correct}
}
