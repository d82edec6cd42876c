// internal/service/service.go
//
// In-process session API consumed by the host UI adapters (HTTP, CLI).
// Responsibilities:
//   - createSession / submitGuess / commitAnswer / advance / getAggregates.
//   - Look up tier entries in the catalog and hand them to the game engine.
//   - Serialize all work on sessions behind one mutex (sessions are
//     single-threaded; adapters are not).
//   - Report activity to the metrics recorder and evict idle sessions.
//
// Errors are the typed sentinels of the lower packages, wrapped with context:
//   store.ErrNotFound, game.ErrQuestionNotFound, game.ErrQuestionAnswered,
//   game.ErrSessionComplete, game.ErrNoQuestions, color.ErrChannelOutOfRange,
//   catalog.ErrUnknownTier.

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
	"github.com/robalobadob/colorguess/internal/metrics"
	"github.com/robalobadob/colorguess/internal/shuffle"
	"github.com/robalobadob/colorguess/internal/store"
)

// Source supplies reference entries per tier. *catalog.Catalog satisfies it.
type Source interface {
	Entries(t catalog.Tier) ([]catalog.Entry, error)
}

// Options tune new sessions.
type Options struct {
	Policy  color.Policy
	Cap     int              // questions per session; 0 = whole tier
	Shuffle shuffle.Func     // nil = shuffle.Random()
	Metrics metrics.Recorder // nil = metrics.NewNoop()
	Now     func() time.Time // nil = time.Now
}

// Service is the session API.
type Service struct {
	mu    sync.Mutex
	store store.Store
	src   Source
	opts  Options
}

// New wires a Service.
func New(st store.Store, src Source, opts Options) *Service {
	if opts.Shuffle == nil {
		opts.Shuffle = shuffle.Random()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, src: src, opts: opts}
}

// CreateOption adjusts a single CreateSession call.
type CreateOption func(*game.Config)

// WithShuffle overrides the service shuffle for one session.
func WithShuffle(f shuffle.Func) CreateOption {
	return func(c *game.Config) { c.Shuffle = f }
}

// CreateSession starts a session for tier and stores it.
func (s *Service) CreateSession(ctx context.Context, tier catalog.Tier, plus bool, opts ...CreateOption) (game.Snapshot, error) {
	entries, err := s.src.Entries(tier)
	if err != nil {
		return game.Snapshot{}, err
	}
	cfg := game.Config{
		Tier:     tier,
		PlusMode: plus,
		Entries:  entries,
		Policy:   s.opts.Policy,
		Cap:      s.opts.Cap,
		Shuffle:  s.opts.Shuffle,
		Now:      s.opts.Now,
	}
	for _, o := range opts {
		o(&cfg)
	}
	sess, err := game.New(cfg)
	if err != nil {
		return game.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, sess); err != nil {
		return game.Snapshot{}, fmt.Errorf("save session: %w", err)
	}
	s.opts.Metrics.SessionCreated(string(tier), plus)
	s.opts.Metrics.SessionsActive(s.store.Len())
	log.Info().Str("sessionId", sess.ID).Str("tier", string(tier)).Bool("plus", plus).
		Int("questions", len(sess.Questions)).Msg("session created")
	return sess.Snapshot(), nil
}

// Get returns a snapshot of session id.
func (s *Service) Get(ctx context.Context, id string) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// SubmitGuess sets the guess for question index.
func (s *Service) SubmitGuess(ctx context.Context, id string, index int, c color.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return sess.SubmitGuess(index, c)
}

// CommitAnswer answers question index and returns its scores.
func (s *Service) CommitAnswer(ctx context.Context, id string, index int) (game.Scores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return game.Scores{}, err
	}
	q, err := sess.Question(index)
	if err != nil {
		return game.Scores{}, err
	}
	already := q.Answered
	sc, err := sess.Commit(index)
	if err != nil {
		return game.Scores{}, err
	}
	if !already {
		primary := q.Primary(sess.PlusMode)
		s.opts.Metrics.AnswerCommitted(string(sess.Tier), primary)
		log.Debug().Str("sessionId", id).Int("index", index).Float64("score", primary).Msg("answer committed")
	}
	return sc, nil
}

// Advance moves session id to its next unanswered question. ok is false once
// the session is complete; advancing a complete session is not an error.
func (s *Service) Advance(ctx context.Context, id string) (next int, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return -1, false, err
	}
	wasComplete := sess.Completed
	next, ok = sess.Advance()
	if !ok && !wasComplete {
		s.opts.Metrics.SessionCompleted(string(sess.Tier))
		agg := sess.Aggregates()
		log.Info().Str("sessionId", id).Float64("primary", agg.Primary).Int("answered", agg.Answered).Msg("session complete")
	}
	return next, ok, nil
}

// Aggregates returns the averages of session id.
func (s *Service) Aggregates(ctx context.Context, id string) (game.Aggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return game.Aggregates{}, err
	}
	return sess.Aggregates(), nil
}

// Subscribe forwards session events to fn until the returned func is called.
// fn runs while the service lock is held and must not call back into Service.
func (s *Service) Subscribe(ctx context.Context, id string, fn func(game.Event)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	unsub := sess.Subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsub()
	}, nil
}

// Discard drops session id.
func (s *Service) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.opts.Metrics.SessionsActive(s.store.Len())
	log.Debug().Str("sessionId", id).Msg("session discarded")
	return nil
}

// Reap evicts sessions idle longer than idle, checking every interval,
// until ctx is cancelled.
func (s *Service) Reap(ctx context.Context, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.reapOnce(ctx, idle)
		}
	}
}

func (s *Service) reapOnce(ctx context.Context, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.store.Sweep(ctx, idle)
	if n > 0 {
		s.opts.Metrics.SessionsActive(s.store.Len())
		log.Info().Int("evicted", n).Dur("idle", idle).Msg("idle sessions swept")
	}
	return n
}
