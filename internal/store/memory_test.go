package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/color"
	"github.com/robalobadob/colorguess/internal/game"
)

func session(t *testing.T, at time.Time) *game.Session {
	t.Helper()
	s, err := game.New(game.Config{
		Tier:    catalog.TierRegular,
		Entries: []catalog.Entry{{Name: "Red", Answer: color.RGB{R: 1}}},
		Now:     func() time.Time { return at },
	})
	require.NoError(t, err)
	return s
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := session(t, time.Now())

	_, err := m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, s))
	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, s.ID))
	assert.ErrorIs(t, m.Delete(ctx, s.ID), ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m := newMemory(func() time.Time { return now })

	stale := session(t, now.Add(-3*time.Hour))
	fresh := session(t, now.Add(-10*time.Minute))
	require.NoError(t, m.Save(ctx, stale))
	require.NoError(t, m.Save(ctx, fresh))

	assert.Equal(t, 1, m.Sweep(ctx, 2*time.Hour))
	_, err := m.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, m.Sweep(ctx, 2*time.Hour))
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	sessions := make([]*game.Session, 16)
	for i := range sessions {
		sessions[i] = session(t, time.Now())
	}
	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Save(ctx, s)
			_, _ = m.Get(ctx, s.ID)
			_ = m.Len()
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, m.Len())
}
