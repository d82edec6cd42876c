package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
	"github.com/robalobadob/colorguess/internal/shuffle"
	"github.com/robalobadob/colorguess/internal/store"
)

const testCatalog = `
regular:
  - name: Red
    answer: "#ff0000"
  - name: Blue
    answer: "#0000ff"
hard:
  - name: Cerulean
    answer: "#1dacd6"
    personal: "#2f8fb3"
    notes: bluish
  - name: Denim
    answer: "#2b6cc4"
  - name: Goldenrod
    answer: "#fcd975"
    personal: "#d4b13a"
`

type fakeMetrics struct {
	created, committed, completed int
	active                        int
	scores                        []float64
}

func (f *fakeMetrics) SessionCreated(string, bool) { f.created++ }
func (f *fakeMetrics) AnswerCommitted(_ string, s float64) {
	f.committed++
	f.scores = append(f.scores, s)
}
func (f *fakeMetrics) SessionCompleted(string) { f.completed++ }
func (f *fakeMetrics) SessionsActive(n int)    { f.active = n }

func newService(t *testing.T, opts Options) (*Service, *fakeMetrics) {
	t.Helper()
	cat, err := catalog.Load(strings.NewReader(testCatalog))
	require.NoError(t, err)
	fm := &fakeMetrics{}
	opts.Metrics = fm
	if opts.Shuffle == nil {
		opts.Shuffle = shuffle.Identity()
	}
	return New(store.NewMemoryStore(), cat, opts), fm
}

func TestRedBlueScenario(t *testing.T) {
	ctx := context.Background()
	svc, fm := newService(t, Options{Policy: color.PolicyRGB})

	snap, err := svc.CreateSession(ctx, catalog.TierRegular, false)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 2)
	assert.Equal(t, "Red", snap.Questions[0].Name)
	assert.Nil(t, snap.Questions[0].Answer, "answer hidden before commit")

	red := color.RGB{R: 1}
	require.NoError(t, svc.SubmitGuess(ctx, snap.ID, 0, red))
	sc, err := svc.CommitAnswer(ctx, snap.ID, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sc.ToReference, 1e-12)

	next, ok, err := svc.Advance(ctx, snap.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, next)

	require.NoError(t, svc.SubmitGuess(ctx, snap.ID, 1, red))
	sc, err = svc.CommitAnswer(ctx, snap.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, sc.ToReference, 1e-9)

	_, ok, err = svc.Advance(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	agg, err := svc.Aggregates(ctx, snap.ID)
	require.NoError(t, err)
	assert.InDelta(t, (1+1.0/3)/2, agg.Primary, 1e-9)

	assert.Equal(t, 1, fm.created)
	assert.Equal(t, 2, fm.committed)
	assert.Equal(t, 1, fm.completed)
	assert.Equal(t, 1, fm.active)
}

func TestCreateSessionErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, Options{})

	_, err := svc.CreateSession(ctx, "nightmare", false)
	assert.ErrorIs(t, err, catalog.ErrUnknownTier)

	_, err = svc.CreateSession(ctx, catalog.TierImpossible, false)
	assert.ErrorIs(t, err, game.ErrNoQuestions)
}

func TestCapAndShuffleOverride(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, Options{Cap: 2})

	a, err := svc.CreateSession(ctx, catalog.TierHard, true, WithShuffle(shuffle.Seeded("salt", "x")))
	require.NoError(t, err)
	b, err := svc.CreateSession(ctx, catalog.TierHard, true, WithShuffle(shuffle.Seeded("salt", "x")))
	require.NoError(t, err)

	require.Len(t, a.Questions, 2)
	assert.NotEqual(t, a.ID, b.ID)
	for i := range a.Questions {
		assert.Equal(t, a.Questions[i].Name, b.Questions[i].Name)
	}
}

func TestTypedErrors(t *testing.T) {
	ctx := context.Background()
	svc, fm := newService(t, Options{})

	_, _, err := svc.Advance(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.SubmitGuess(ctx, "missing", 0, color.RGB{}), store.ErrNotFound)
	_, err = svc.CommitAnswer(ctx, "missing", 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Aggregates(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	snap, err := svc.CreateSession(ctx, catalog.TierRegular, false)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SubmitGuess(ctx, snap.ID, 0, color.RGB{R: 2}), color.ErrChannelOutOfRange)
	assert.ErrorIs(t, svc.SubmitGuess(ctx, snap.ID, 9, color.RGB{}), game.ErrQuestionNotFound)
	_, err = svc.CommitAnswer(ctx, snap.ID, 9)
	assert.ErrorIs(t, err, game.ErrQuestionNotFound)

	_, err = svc.CommitAnswer(ctx, snap.ID, 0)
	require.NoError(t, err)
	_, err = svc.CommitAnswer(ctx, snap.ID, 0)
	require.NoError(t, err, "second commit is a no-op")
	assert.Equal(t, 1, fm.committed)
	assert.ErrorIs(t, svc.SubmitGuess(ctx, snap.ID, 0, color.RGB{}), game.ErrQuestionAnswered)

	_, err = svc.CommitAnswer(ctx, snap.ID, 1)
	require.NoError(t, err)
	_, ok, err := svc.Advance(ctx, snap.ID)
	require.NoError(t, err)
	require.False(t, ok)

	assert.ErrorIs(t, svc.SubmitGuess(ctx, snap.ID, 1, color.RGB{}), game.ErrSessionComplete)
	_, err = svc.CommitAnswer(ctx, snap.ID, 1)
	assert.ErrorIs(t, err, game.ErrSessionComplete)

	next, ok, err := svc.Advance(ctx, snap.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, next)
	assert.Equal(t, 1, fm.completed, "completion counted once")
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, Options{})

	snap, err := svc.CreateSession(ctx, catalog.TierRegular, false)
	require.NoError(t, err)

	var kinds []game.EventKind
	unsub, err := svc.Subscribe(ctx, snap.ID, func(e game.Event) { kinds = append(kinds, e.Kind) })
	require.NoError(t, err)

	require.NoError(t, svc.SubmitGuess(ctx, snap.ID, 0, color.RGB{G: 1}))
	_, err = svc.CommitAnswer(ctx, snap.ID, 0)
	require.NoError(t, err)
	unsub()
	_, _, err = svc.Advance(ctx, snap.ID)
	require.NoError(t, err)

	assert.Equal(t, []game.EventKind{game.EventGuessChanged, game.EventAnswerCommitted}, kinds)

	_, err = svc.Subscribe(ctx, "missing", func(game.Event) {})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDiscardAndReap(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-3 * time.Hour)
	svc, fm := newService(t, Options{Now: func() time.Time { return past }})

	a, err := svc.CreateSession(ctx, catalog.TierRegular, false)
	require.NoError(t, err)
	b, err := svc.CreateSession(ctx, catalog.TierHard, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fm.active)

	require.NoError(t, svc.Discard(ctx, a.ID))
	assert.ErrorIs(t, svc.Discard(ctx, a.ID), store.ErrNotFound)
	assert.Equal(t, 1, fm.active)

	assert.Equal(t, 1, svc.reapOnce(ctx, time.Hour))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, fm.active)
}

func TestReapStopsOnCancel(t *testing.T) {
	svc, _ := newService(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Reap(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reap did not return after cancel")
	}
}
