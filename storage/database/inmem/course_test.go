package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core/course"
)

func newRepos(t *testing.T) (*CourseRepository, *MediaRepository) {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	return NewCourseRepository(db), NewMediaRepository(db)
}

func TestCourseRepository(t *testing.T) {
	repo, _ := newRepos(t)

	crs, err := repo.CreateCourse(course.Course{Title: "Go 101"})
	require.NoError(t, err)
	assert.Equal(t, course.ID("1"), crs.ID)

	_, err = repo.GetCourseByID("404")
	assert.Equal(t, course.ErrCourseNotFound, err)
	_, err = repo.SaveModules("404", nil)
	assert.Equal(t, course.ErrCourseNotFound, err)

	saved, err := repo.SaveModules(crs.ID, []course.Module{
		{ID: "tmp-a", Title: "A", Description: "a", Order: 1, Lessons: []course.Lesson{
			{ID: "tmp-l", ModuleID: "tmp-a", Title: "L", Type: course.LessonQuiz, Order: 1, Questions: []course.Question{
				{ID: "tmp-q", Text: "?", Type: course.FillBlank, CorrectAnswer: "x"},
			}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, saved.Modules, 1)
	mod := saved.Modules[0]
	assert.Equal(t, course.ID("2"), mod.ID)
	require.Len(t, mod.Lessons, 1)
	assert.Equal(t, course.ID("3"), mod.Lessons[0].ID)
	assert.Equal(t, mod.ID, mod.Lessons[0].ModuleID)
	assert.Equal(t, course.ID("4"), mod.Lessons[0].Questions[0].ID)

	// known ids are kept
	saved, err = repo.SaveModules(crs.ID, saved.Modules)
	require.NoError(t, err)
	assert.Equal(t, course.ID("2"), saved.Modules[0].ID)

	// returned copies are detached from the store
	saved.Modules[0].Title = "changed"
	got, err := repo.GetCourseByID(crs.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Modules[0].Title)

	all, err := repo.QueryAllCourses()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteCoursesByID(crs.ID))
	_, err = repo.GetCourseByID(crs.ID)
	assert.Equal(t, course.ErrCourseNotFound, err)
}

func TestMediaRepository(t *testing.T) {
	_, repo := newRepos(t)

	m, err := repo.CreateMedia(course.UploadDocument, ".pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f-]{36}\.pdf$`, m.Name)

	got, err := repo.GetMedia(m.Name)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = repo.GetMedia("nope.pdf")
	assert.Equal(t, ErrMediaNotFound, err)
}
