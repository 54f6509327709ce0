package domain

import "errors"

var (
	// ErrModuleNotFound indicates the requested module does not exist in the content registry.
	ErrModuleNotFound = errors.New("module not found")
	// ErrQuizUnavailable indicates the module has no usable quiz pool.
	ErrQuizUnavailable = errors.New("quiz not available")
	// ErrSessionNotFound is returned when no quiz session exists for a module key.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidQuestion indicates a question violates its structural invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrQuestionIndexOutOfRange indicates an answer was submitted for a nonexistent question slot.
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	// ErrEmptySession indicates a session with zero questions was handed to the scorer.
	ErrEmptySession = errors.New("session has no questions")
)
