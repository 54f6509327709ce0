package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"glasscode-quiz-service/internal/domain"
	"glasscode-quiz-service/internal/quiz"
	"glasscode-quiz-service/internal/timer"
)

// WSHandler drives one quiz attempt per websocket connection: the client
// starts or resumes a session, submits answers, and receives countdown ticks
// until it finishes or the deadline forces scoring.
type WSHandler struct {
	service  *quiz.Service
	clock    timer.Clock
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

func NewWSHandler(service *quiz.Service, clock timer.Clock, log *zap.SugaredLogger) *WSHandler {
	if clock == nil {
		clock = timer.NewClock()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WSHandler{
		service: service,
		clock:   clock,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Index         int    `json:"index"`
	SelectedIndex *int   `json:"selectedIndex,omitempty"`
	EnteredText   string `json:"enteredText,omitempty"`
}

type answerResult struct {
	Index       int    `json:"index"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

type questionView struct {
	Index   int      `json:"index"`
	Topic   string   `json:"topic,omitempty"`
	Type    string   `json:"type"`
	Text    string   `json:"question"`
	Choices []string `json:"choices,omitempty"`
}

type sessionView struct {
	AttemptID      string                 `json:"attemptId"`
	ModuleSlug     string                 `json:"moduleSlug"`
	Questions      []questionView         `json:"questions"`
	TotalQuestions int                    `json:"totalQuestions"`
	PassingScore   int                    `json:"passingScore"`
	TimeLimit      int                    `json:"timeLimit"`
	StartedAt      time.Time              `json:"startedAt"`
	Deadline       time.Time              `json:"deadline"`
	Answers        []*domain.AnswerRecord `json:"answers"`
}

type tickPayload struct {
	RemainingMs int64 `json:"remainingMs"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the attempt loop until the client
// disconnects or time runs out.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	moduleSlug := r.URL.Query().Get("module")
	if moduleSlug == "" {
		http.Error(w, "missing module", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-send:
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Debugw("ws write error", "err", err)
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	deliver := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		}
	}

	var stopCountdown func()
	cancelCountdown := func() {
		if stopCountdown != nil {
			stopCountdown()
			stopCountdown = nil
		}
	}
	defer cancelCountdown()

	armCountdown := func(session domain.QuizSession) {
		cancelCountdown()
		stopCountdown = timer.StartCountdown(h.clock, session.Deadline(),
			func(remaining time.Duration) {
				deliver(outboundMessage[any]{Type: "tick", Payload: tickPayload{RemainingMs: remaining.Milliseconds()}})
			},
			func() {
				deliver(outboundMessage[any]{Type: "expired", Payload: tickPayload{RemainingMs: 0}})
				summary, err := h.service.Finish(r.Context(), moduleSlug)
				if err != nil {
					deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
					return
				}
				deliver(outboundMessage[any]{Type: "results", Payload: summary})
			},
		)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			session, err := h.service.Start(r.Context(), moduleSlug)
			if err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			armCountdown(session)
			deliver(outboundMessage[any]{Type: "session", Payload: viewOf(session)})
		case "resume":
			session, err := h.service.Get(r.Context(), moduleSlug)
			if err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			armCountdown(session)
			deliver(outboundMessage[any]{Type: "session", Payload: viewOf(session)})
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			record, err := h.service.SubmitAnswer(r.Context(), moduleSlug, payload.Index, domain.AnswerSubmission{
				SelectedIndex: payload.SelectedIndex,
				EnteredText:   payload.EnteredText,
			})
			if err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			deliver(outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Index:       payload.Index,
				Correct:     record.Correct,
				Explanation: h.explanationFor(r.Context(), moduleSlug, payload.Index),
			}})
		case "finish":
			cancelCountdown()
			summary, err := h.service.Finish(r.Context(), moduleSlug)
			if err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			deliver(outboundMessage[any]{Type: "results", Payload: summary})
		case "retake":
			cancelCountdown()
			if err := h.service.Retake(r.Context(), moduleSlug); err != nil {
				deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: userMessage(err)}})
				continue
			}
			deliver(outboundMessage[any]{Type: "cleared", Payload: struct{}{}})
		default:
			deliver(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-writerDone
}

func (h *WSHandler) explanationFor(ctx context.Context, slug string, index int) string {
	session, err := h.service.Get(ctx, slug)
	if err != nil || index < 0 || index >= len(session.Questions) {
		return ""
	}
	return session.Questions[index].Explanation
}

// viewOf sanitizes a session for the client: question text and choices go
// out, correct answers stay on the server.
func viewOf(session domain.QuizSession) sessionView {
	questions := make([]questionView, len(session.Questions))
	for i, q := range session.Questions {
		questions[i] = questionView{
			Index:   i,
			Topic:   q.Topic,
			Type:    string(q.Type),
			Text:    q.Text,
			Choices: q.Choices,
		}
	}
	return sessionView{
		AttemptID:      session.AttemptID,
		ModuleSlug:     session.ModuleSlug,
		Questions:      questions,
		TotalQuestions: session.TotalQuestions,
		PassingScore:   session.PassingScore,
		TimeLimit:      session.TimeLimit,
		StartedAt:      session.StartedAt,
		Deadline:       session.Deadline(),
		Answers:        session.Answers,
	}
}

// userMessage maps domain errors to learner-facing text; routing errors keep
// their sentinel wording so clients can redirect to quiz start.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrModuleNotFound),
		errors.Is(err, domain.ErrQuizUnavailable):
		return "quiz not available"
	default:
		return err.Error()
	}
}
