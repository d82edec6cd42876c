// internal/game/types.go
//
// Core type definitions for the color guessing engine.
// Defines:
//   - Scores: per-question similarity results.
//   - Aggregates: session-level averages (plus-mode secondary figures).
//   - Event: notifications delivered to session observers.
//   - Snapshot / QuestionView: transport-safe copies of session state.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
)

var (
	ErrNoQuestions      = errors.New("no questions for tier")
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionAnswered = errors.New("question already answered")
	ErrSessionComplete  = errors.New("session complete")
)

// DefaultCap is the number of questions drawn per session unless configured.
const DefaultCap = 10

// Scores holds the results of a committed question.
// PersonalToReference is known from creation; the rest appear on commit.
type Scores struct {
	ToReference         float64  `json:"toReference"`
	ToPersonal          *float64 `json:"toPersonal,omitempty"`
	PersonalToReference *float64 `json:"personalToReference,omitempty"`
}

// Aggregates are the averages shown on the results screen.
type Aggregates struct {
	Answered  int        `json:"answered"`
	Total     int        `json:"total"`
	Primary   float64    `json:"primary"`
	Secondary *Secondary `json:"secondary,omitempty"` // plus mode only
}

// Secondary compares the player ("You") and the personal picks ("Me")
// against the canonical answers.
type Secondary struct {
	You float64 `json:"you"`
	Me  float64 `json:"me"`
}

// EventKind names a session state change.
type EventKind string

const (
	EventGuessChanged    EventKind = "guess_changed"
	EventAnswerCommitted EventKind = "answer_committed"
	EventQuestionChanged EventKind = "question_changed"
	EventCompleted       EventKind = "completed"
)

// Event is delivered synchronously to observers after a mutation.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"sessionId"`
	Index     int       `json:"index"` // -1 for EventCompleted
}

// QuestionView is a question as a host UI may see it.
// The answer, personal pick, notes and scores stay hidden until committed.
type QuestionView struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Guess    color.RGB  `json:"guess"`
	Answered bool       `json:"answered"`
	Answer   *color.RGB `json:"answer,omitempty"`
	Personal *color.RGB `json:"personal,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	Scores   *Scores    `json:"scores,omitempty"`
}

// Snapshot is a value copy of a session.
type Snapshot struct {
	ID         string         `json:"id"`
	Tier       catalog.Tier   `json:"tier"`
	PlusMode   bool           `json:"plusMode"`
	Policy     color.Policy   `json:"policy"`
	Current    int            `json:"current"`
	Completed  bool           `json:"completed"`
	Questions  []QuestionView `json:"questions"`
	Aggregates Aggregates     `json:"aggregates"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
