package domain

import "time"

// QuestionType discriminates how a question is presented and scored.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	Scenario       QuestionType = "scenario"
	OpenEnded      QuestionType = "open-ended"
)

// Question is one entry of a module's quiz pool.
//
// Choice-based questions (multiple-choice, true-false, scenario) carry Choices
// plus a CorrectAnswer index; open-ended questions carry AcceptedAnswers.
// Exactly one of the two shapes must apply; questions violating that are
// filtered out before selection.
type Question struct {
	ID               int          `json:"id"`
	Topic            string       `json:"topic,omitempty"`
	Type             QuestionType `json:"type"`
	Text             string       `json:"question" validate:"required"`
	Choices          []string     `json:"choices,omitempty"`
	CorrectAnswer    *int         `json:"correctAnswer,omitempty"`
	AcceptedAnswers  []string     `json:"acceptedAnswers,omitempty"`
	Explanation      string       `json:"explanation,omitempty"`
	FixedChoiceOrder bool         `json:"fixedChoiceOrder,omitempty"`
}

// IsOpenEnded reports whether the question is scored by free-text match.
func (q Question) IsOpenEnded() bool {
	return q.Type == OpenEnded || len(q.AcceptedAnswers) > 0
}

// Quiz is a module's full candidate question pool.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Lesson is a unit of module content; the quiz core only counts them for
// completion reporting.
type Lesson struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ModuleThresholds gate quiz availability and pass criteria.
type ModuleThresholds struct {
	RequiredLessons   int `json:"requiredLessons"`
	RequiredQuestions int `json:"requiredQuestions"`
	MinQuizQuestions  int `json:"minQuizQuestions,omitempty"`
	PassingScore      int `json:"passingScore,omitempty"`
}

// Module is a named unit of curriculum content.
type Module struct {
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Tier          string           `json:"tier,omitempty"`
	Order         int              `json:"order,omitempty"`
	Prerequisites []string         `json:"prerequisites,omitempty"`
	Thresholds    ModuleThresholds `json:"thresholds"`
}

// TargetQuestions resolves the per-attempt question count, falling back to
// fallback when the module does not pin one.
func (m Module) TargetQuestions(fallback int) int {
	if m.Thresholds.MinQuizQuestions > 0 {
		return m.Thresholds.MinQuizQuestions
	}
	if m.Thresholds.RequiredQuestions > 0 {
		return m.Thresholds.RequiredQuestions
	}
	return fallback
}

// PassingScore resolves the pass threshold percentage.
func (m Module) PassingScore(fallback int) int {
	if m.Thresholds.PassingScore > 0 {
		return m.Thresholds.PassingScore
	}
	return fallback
}

// ThresholdStatus reports whether a module's content meets its own minimums.
type ThresholdStatus struct {
	QuizValid    bool `json:"quizValid"`
	LessonsValid bool `json:"lessonsValid"`
}

// AnswerRecord captures one submitted answer. Resubmission for the same
// question index overwrites the previous record.
type AnswerRecord struct {
	SelectedIndex *int   `json:"selectedIndex,omitempty"`
	EnteredText   string `json:"enteredText,omitempty"`
	Correct       bool   `json:"correct"`
}

// AnswerSubmission is the raw learner input for one question.
type AnswerSubmission struct {
	SelectedIndex *int
	EnteredText   string
}

// QuizSession is one attempt at a module's quiz. Answers is indexed 1:1 with
// Questions; a nil entry means unanswered.
type QuizSession struct {
	AttemptID      string          `json:"attemptId"`
	ModuleSlug     string          `json:"moduleSlug"`
	Questions      []Question      `json:"questions"`
	TotalQuestions int             `json:"totalQuestions"`
	PassingScore   int             `json:"passingScore"`
	TimeLimit      int             `json:"timeLimit"` // minutes
	StartedAt      time.Time       `json:"startedAt"`
	Answers        []*AnswerRecord `json:"answers"`
}

// Deadline derives the moment the attempt times out.
func (s QuizSession) Deadline() time.Time {
	return s.StartedAt.Add(time.Duration(s.TimeLimit) * time.Minute)
}

// Answered counts recorded answers.
func (s QuizSession) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// CategoryScore is the per-topic slice of a results summary.
type CategoryScore struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
}

// ResultsSummary is derived from a finished session; it is never persisted.
type ResultsSummary struct {
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	Score          int             `json:"score"`
	PassingScore   int             `json:"passingScore"`
	Passed         bool            `json:"passed"`
	TimeTaken      time.Duration   `json:"timeTaken"`
	CategoryScores []CategoryScore `json:"categoryScores"`
}

// Completion is what gets handed to the progress tracker after a passed attempt.
type Completion struct {
	QuizScore        int `json:"quizScore"`
	LessonsCompleted int `json:"lessonsCompleted,omitempty"`
	TotalLessons     int `json:"totalLessons,omitempty"`
}

// ModuleContent bundles everything the registry knows about one module.
type ModuleContent struct {
	Module  Module   `json:"module"`
	Lessons []Lesson `json:"lessons,omitempty"`
	Quiz    Quiz     `json:"quiz"`
}
