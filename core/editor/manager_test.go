package editor

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core/course"
	testutil "github.com/trezcool/coursebuilder/tests"
)

func newTestManager(maxIdle time.Duration) *Manager {
	backend := testutil.NewBackend(testutil.Course("1", "C", 1), testutil.Course("2", "D", 2))
	return NewManager(Options{Backend: backend, Notifier: new(testutil.Notifier), Logger: testutil.Logger{}}, maxIdle)
}

func TestManager(t *testing.T) {
	mgr := newTestManager(time.Hour)
	ctx := context.Background()

	s1, err := mgr.Open(ctx, "1")
	require.NoError(t, err)
	s2, err := mgr.Open(ctx, "2")
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.Equal(t, 2, mgr.Len())

	_, err = mgr.Open(ctx, "404")
	assert.Equal(t, course.ErrCourseNotFound, errors.Cause(err))
	assert.Equal(t, 2, mgr.Len())

	got, err := mgr.Get(s1.ID())
	require.NoError(t, err)
	assert.Same(t, s1, got)

	require.NoError(t, mgr.Close(s1.ID()))
	_, err = mgr.Get(s1.ID())
	assert.Equal(t, ErrSessionNotFound, err)
	assert.Equal(t, ErrSessionNotFound, mgr.Close(s1.ID()))
}

func TestManager_Sweep(t *testing.T) {
	mgr := newTestManager(time.Hour)
	ctx := context.Background()
	start := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return start }
	defer func() { nowFunc = time.Now }()

	idle, err := mgr.Open(ctx, "1")
	require.NoError(t, err)

	nowFunc = func() time.Time { return start.Add(50 * time.Minute) }
	active, err := mgr.Open(ctx, "2")
	require.NoError(t, err)

	nowFunc = func() time.Time { return start.Add(90 * time.Minute) }
	assert.Equal(t, 1, mgr.Sweep())

	_, err = mgr.Get(idle.ID())
	assert.Equal(t, ErrSessionNotFound, err)
	_, err = mgr.Get(active.ID())
	assert.NoError(t, err)

	assert.Equal(t, 0, newTestManager(0).Sweep())
}
