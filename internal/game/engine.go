// internal/game/engine.go
//
// Session engine for a single color guessing game.
// Responsibilities:
//   - Build a session from a tier's catalog entries (shuffled, optionally capped).
//   - Apply guesses and commits to individual questions.
//   - Track progression: current question → next unanswered → complete.
//   - Compute aggregate scores and notify observers of every change.
//
// Notes:
//   - A Session is not safe for concurrent use; callers serialize access.
//   - Question order is fixed at creation; Advance scans in that order.
//   - Observers run synchronously inside the mutating call.
package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/shuffle"
)

// Config describes a session to start.
type Config struct {
	Tier     catalog.Tier
	PlusMode bool
	Entries  []catalog.Entry
	Policy   color.Policy
	Cap      int              // 0 = every entry
	Shuffle  shuffle.Func     // nil = shuffle.Random()
	Now      func() time.Time // nil = time.Now
}

// Session is an ordered run of questions for one tier.
type Session struct {
	ID        string
	Tier      catalog.Tier
	PlusMode  bool
	Policy    color.Policy
	Questions []*Question
	Current   int
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time

	now       func() time.Time
	observers map[int]func(Event)
	nextObs   int
}

// New starts a session: entries are copied, shuffled, capped and turned into
// questions, with the first one current.
func New(cfg Config) (*Session, error) {
	if len(cfg.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, cfg.Tier)
	}
	shuf := cfg.Shuffle
	if shuf == nil {
		shuf = shuffle.Random()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	entries := make([]catalog.Entry, len(cfg.Entries))
	copy(entries, cfg.Entries)
	shuf(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	if cfg.Cap > 0 && len(entries) > cfg.Cap {
		entries = entries[:cfg.Cap]
	}

	qs := make([]*Question, len(entries))
	for i, e := range entries {
		qs[i] = newQuestion(e, cfg.Policy)
	}

	t := now()
	return &Session{
		ID:        uuid.NewString(),
		Tier:      cfg.Tier,
		PlusMode:  cfg.PlusMode,
		Policy:    cfg.Policy,
		Questions: qs,
		CreatedAt: t,
		UpdatedAt: t,
		now:       now,
	}, nil
}

// Question returns question i or ErrQuestionNotFound.
func (s *Session) Question(i int) (*Question, error) {
	if i < 0 || i >= len(s.Questions) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrQuestionNotFound, i, len(s.Questions))
	}
	return s.Questions[i], nil
}

// CurrentQuestion returns the current question, or nil once complete.
func (s *Session) CurrentQuestion() *Question {
	if s.Completed {
		return nil
	}
	return s.Questions[s.Current]
}

// SubmitGuess sets the guess on question i.
func (s *Session) SubmitGuess(i int, c color.RGB) error {
	if s.Completed {
		return ErrSessionComplete
	}
	q, err := s.Question(i)
	if err != nil {
		return err
	}
	if err := q.SetGuess(c); err != nil {
		return err
	}
	s.touch()
	s.emit(Event{Kind: EventGuessChanged, SessionID: s.ID, Index: i})
	return nil
}

// Commit answers question i with its current guess and returns its scores.
// Committing an already answered question is a no-op.
func (s *Session) Commit(i int) (Scores, error) {
	if s.Completed {
		return Scores{}, ErrSessionComplete
	}
	q, err := s.Question(i)
	if err != nil {
		return Scores{}, err
	}
	sc, changed := q.Commit(s.Policy)
	if changed {
		s.touch()
		s.emit(Event{Kind: EventAnswerCommitted, SessionID: s.ID, Index: i})
	}
	return sc, nil
}

// Advance moves to the first unanswered question in creation order and
// returns its index. When none remain the session completes and ok is false.
// Advancing a completed session does nothing.
func (s *Session) Advance() (next int, ok bool) {
	if s.Completed {
		return -1, false
	}
	for i, q := range s.Questions {
		if !q.Answered {
			changed := s.Current != i
			s.Current = i
			if changed {
				s.touch()
				s.emit(Event{Kind: EventQuestionChanged, SessionID: s.ID, Index: i})
			}
			return i, true
		}
	}
	s.Completed = true
	s.touch()
	s.emit(Event{Kind: EventCompleted, SessionID: s.ID, Index: -1})
	return -1, false
}

// Aggregates averages the answered questions. With nothing answered every
// figure is 0.
func (s *Session) Aggregates() Aggregates {
	agg := Aggregates{Total: len(s.Questions)}

	var primary, you, me float64
	var mine int
	for _, q := range s.Questions {
		if !q.Answered {
			continue
		}
		agg.Answered++
		primary += q.Primary(s.PlusMode)
		you += q.Scores.ToReference
		if q.Scores.PersonalToReference != nil {
			me += *q.Scores.PersonalToReference
			mine++
		}
	}

	agg.Primary = mean(primary, agg.Answered)
	if s.PlusMode {
		agg.Secondary = &Secondary{You: mean(you, agg.Answered), Me: mean(me, mine)}
	}
	return agg
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	if s.observers == nil {
		s.observers = make(map[int]func(Event))
	}
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

// Snapshot returns a copy of the session safe to hand to another goroutine.
func (s *Session) Snapshot() Snapshot {
	views := make([]QuestionView, len(s.Questions))
	for i, q := range s.Questions {
		views[i] = q.view(i)
	}
	return Snapshot{
		ID:         s.ID,
		Tier:       s.Tier,
		PlusMode:   s.PlusMode,
		Policy:     s.Policy,
		Current:    s.Current,
		Completed:  s.Completed,
		Questions:  views,
		Aggregates: s.Aggregates(),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// LastActive reports when the session last changed.
func (s *Session) LastActive() time.Time { return s.UpdatedAt }

func (s *Session) touch() {
	if s.now != nil {
		s.UpdatedAt = s.now()
	} else {
		s.UpdatedAt = time.Now()
	}
}

// emit delivers e to observers in subscription order.
func (s *Session) emit(e Event) {
	if len(s.observers) == 0 {
		return
	}
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.observers[id]; ok {
			fn(e)
		}
	}
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
