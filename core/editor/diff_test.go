package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core/course"
	testutil "github.com/trezcool/coursebuilder/tests"
)

func TestDiff(t *testing.T) {
	saved := course.NewTree(testutil.Course("1", "C", 1).Modules)

	diff, err := Diff(saved, saved.Clone())
	require.NoError(t, err)
	assert.Empty(t, diff)

	draft := saved.UpdateModule("1", course.ModuleData{Title: "Renamed", Description: "About 1"})
	diff, err = Diff(saved, draft)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- saved")
	assert.Contains(t, diff, "+++ draft")
	assert.Contains(t, diff, `-      "title": "Module 1",`)
	assert.Contains(t, diff, `+      "title": "Renamed",`)
}

func TestSession_Diff(t *testing.T) {
	sess, _, _ := newTestSession(t, testutil.Course("1", "C", 2))
	diff, err := sess.Diff()
	require.NoError(t, err)
	assert.Empty(t, diff)

	sess.DeleteLesson("101")
	diff, err = sess.Diff()
	require.NoError(t, err)
	assert.Contains(t, diff, `"title": "Lesson 101"`)
}
