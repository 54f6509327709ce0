package quiz

import (
	"math"

	"glasscode-quiz-service/internal/domain"
)

// Score aggregates a session's recorded answers into a results summary.
//
// Unanswered questions count as incorrect. The percentage rounds half up.
// Category order follows the first occurrence of each topic in the question
// sequence; questions without a topic fall under "General". A session with
// zero questions is rejected rather than producing a divide-by-zero score.
func Score(session domain.QuizSession) (domain.ResultsSummary, error) {
	total := session.TotalQuestions
	if total == 0 {
		total = len(session.Questions)
	}
	if total == 0 {
		return domain.ResultsSummary{}, domain.ErrEmptySession
	}

	correct := 0
	for _, a := range session.Answers {
		if a != nil && a.Correct {
			correct++
		}
	}

	score := int(math.Round(float64(correct) / float64(total) * 100))

	byTopic := make(map[string]int)
	categories := make([]domain.CategoryScore, 0)
	for i, q := range session.Questions {
		topic := q.Topic
		if topic == "" {
			topic = "General"
		}
		idx, ok := byTopic[topic]
		if !ok {
			idx = len(categories)
			byTopic[topic] = idx
			categories = append(categories, domain.CategoryScore{Category: topic})
		}
		categories[idx].Total++
		if i < len(session.Answers) && session.Answers[i] != nil && session.Answers[i].Correct {
			categories[idx].Correct++
		}
	}

	return domain.ResultsSummary{
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		PassingScore:   session.PassingScore,
		Passed:         score >= session.PassingScore,
		CategoryScores: categories,
	}, nil
}
