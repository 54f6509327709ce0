package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"glasscode-quiz-service/internal/domain"
	"glasscode-quiz-service/internal/infra/memory"
	"glasscode-quiz-service/internal/quiz"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := memory.NewContentRegistry(memory.NewStaticContentLoader(sampleContent()), time.Minute)
	service := quiz.NewService(
		registry,
		memory.NewSessionStore(nil),
		memory.NewHistoryStore(quiz.HistoryLimit),
		nil, nil, nil,
		quiz.DefaultSettings(),
		nil,
	)
	handler := NewWSHandler(service, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server, module string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?module=" + module
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketAttemptFlow(t *testing.T) {
	server := newTestServer(t)
	conn := dialWS(t, server, "go-basics")

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	_, payload := readNext(conn, t, "session")

	questions, ok := payload["questions"].([]any)
	if !ok || len(questions) != 2 {
		t.Fatalf("expected 2 questions in session view, got %v", payload["questions"])
	}
	if payload["timeLimit"].(float64) != 10 {
		t.Fatalf("expected floor time limit of 10 minutes, got %v", payload["timeLimit"])
	}

	// Correct answers must never reach the client.
	first := questions[0].(map[string]any)
	if _, leaked := first["correctAnswer"]; leaked {
		t.Fatalf("correct answer leaked to client: %v", first)
	}
	if _, leaked := first["acceptedAnswers"]; leaked {
		t.Fatalf("accepted answers leaked to client: %v", first)
	}

	// Both fixture questions keep index 1 correct.
	for i := 0; i < 2; i++ {
		answer := map[string]any{
			"type": "answer",
			"payload": map[string]any{
				"index":         i,
				"selectedIndex": 1,
			},
		}
		if err := conn.WriteJSON(answer); err != nil {
			t.Fatalf("write answer %d: %v", i, err)
		}
		_, result := readNext(conn, t, "answerResult")
		if result["correct"] != true {
			t.Fatalf("expected answer %d correct, got %v", i, result)
		}
	}

	if err := conn.WriteJSON(map[string]any{"type": "finish"}); err != nil {
		t.Fatalf("write finish: %v", err)
	}
	_, results := readNext(conn, t, "results")
	if results["score"].(float64) != 100 {
		t.Fatalf("expected score 100, got %v", results["score"])
	}
	if results["passed"] != true {
		t.Fatalf("expected a passing attempt, got %v", results)
	}
}

func TestWebSocketResumeReturnsExistingSession(t *testing.T) {
	server := newTestServer(t)
	conn := dialWS(t, server, "go-basics")

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	_, started := readNext(conn, t, "session")

	if err := conn.WriteJSON(map[string]any{"type": "resume"}); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	_, resumed := readNext(conn, t, "session")

	if started["attemptId"] != resumed["attemptId"] {
		t.Fatalf("resume returned a different attempt: %v vs %v", started["attemptId"], resumed["attemptId"])
	}
}

func TestWebSocketRetakeClearsSession(t *testing.T) {
	server := newTestServer(t)
	conn := dialWS(t, server, "go-basics")

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "session")

	if err := conn.WriteJSON(map[string]any{"type": "retake"}); err != nil {
		t.Fatalf("write retake: %v", err)
	}
	readNext(conn, t, "cleared")

	if err := conn.WriteJSON(map[string]any{"type": "resume"}); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	msgType, _ := readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error after retake, got %s", msgType)
	}
}

func TestWebSocketUnknownModule(t *testing.T) {
	server := newTestServer(t)
	conn := dialWS(t, server, "does-not-exist")

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "quiz not available" {
		t.Fatalf("expected learner-facing message, got %v", payload["message"])
	}
}

func TestWebSocketRejectsMissingModuleParam(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing module param, got %d", resp.StatusCode)
	}
}

// readNext returns the next non-tick frame; countdown ticks arrive on a real
// clock and may interleave with command responses.
func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == "tick" {
			continue
		}
		if expect != "" && msg.Type != expect {
			t.Fatalf("expected type %s, got %s", expect, msg.Type)
		}
		return msg.Type, msg.Payload
	}
}

// sampleContent pins choice order and keeps index 1 correct on every question
// so the flow test stays deterministic under shuffling.
func sampleContent() map[string]domain.ModuleContent {
	correct := 1
	return map[string]domain.ModuleContent{
		"go-basics": {
			Module: domain.Module{
				Slug:  "go-basics",
				Title: "Go Basics",
				Thresholds: domain.ModuleThresholds{
					RequiredQuestions: 2,
					MinQuizQuestions:  2,
				},
			},
			Lessons: []domain.Lesson{{ID: 1, Title: "Hello, Go"}},
			Quiz: domain.Quiz{Questions: []domain.Question{
				{
					ID:               1,
					Topic:            "Syntax",
					Type:             domain.MultipleChoice,
					Text:             "Which keyword declares a function?",
					Choices:          []string{"fn", "func", "def"},
					CorrectAnswer:    &correct,
					FixedChoiceOrder: true,
				},
				{
					ID:               2,
					Topic:            "Syntax",
					Type:             domain.MultipleChoice,
					Text:             "Which keyword starts a loop?",
					Choices:          []string{"while", "for", "loop"},
					CorrectAnswer:    &correct,
					FixedChoiceOrder: true,
				},
			}},
		},
	}
}
