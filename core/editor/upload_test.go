package editor

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	testutil "github.com/trezcool/coursebuilder/tests"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func pdfFile(name string) course.File {
	return course.File{Name: name, Size: int64(len(pdfContent)), Content: bytes.NewReader(pdfContent)}
}

func pdfCourse() course.Course {
	crs := testutil.Course("1", "C", 2)
	for i := range crs.Modules[0].Lessons {
		crs.Modules[0].Lessons[i].Type = course.LessonPDF
	}
	return crs
}

func TestSession_UploadLessonMedia(t *testing.T) {
	sess, backend, _ := newTestSession(t, pdfCourse())
	dur := 12.0
	backend.UploadDur = &dur

	res, err := sess.UploadLessonMedia(context.Background(), "101", pdfFile("notes.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "http://lms.test/media/document/notes.pdf", res.URL)

	lsn, _ := sess.Tree().FindLesson("101")
	assert.Equal(t, res.URL, lsn.URL)
	require.NotNil(t, lsn.Duration)
	assert.Equal(t, 12.0, *lsn.Duration)

	// the other lesson is untouched
	other, _ := sess.Tree().FindLesson("102")
	assert.Empty(t, other.URL)

	notifs := sess.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, core.LevelSuccess, notifs[0].Level)
}

func TestSession_UploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		lessonID course.ID
		file     course.File
		setup    func(*testutil.Backend)
		wantErr  error
	}{
		{name: "unknown lesson", lessonID: "999", file: pdfFile("a.pdf"), wantErr: ErrLessonNotFound},
		{name: "wrong type", lessonID: "101", file: course.File{Name: "a.txt", Size: 4, Content: bytes.NewReader([]byte("text"))}, wantErr: course.ErrInvalidFileType},
		{name: "too large", lessonID: "101", file: course.File{Name: "a.pdf", Size: 2 << 20, Content: bytes.NewReader(pdfContent)}, wantErr: course.ErrFileTooLarge},
		{name: "empty", lessonID: "101", file: course.File{Name: "a.pdf", Content: bytes.NewReader(nil)}, wantErr: course.ErrEmptyFile},
		{
			name:     "backend failure",
			lessonID: "101",
			file:     pdfFile("a.pdf"),
			setup:    func(b *testutil.Backend) { b.UploadErr = testutil.ErrBackendDown },
			wantErr:  testutil.ErrBackendDown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, backend, _ := newTestSession(t, pdfCourse())
			if tt.setup != nil {
				tt.setup(backend)
			}
			before := sess.Tree()

			_, err := sess.UploadLessonMedia(context.Background(), tt.lessonID, tt.file)
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("UploadLessonMedia() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, before, sess.Tree())
			assert.Zero(t, sess.View().Uploads)
		})
	}
}

func TestSession_UploadInProgress(t *testing.T) {
	sess, backend, _ := newTestSession(t, pdfCourse())
	backend.UploadStarted = make(chan struct{})
	backend.UploadRelease = make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := sess.UploadLessonMedia(context.Background(), "101", pdfFile("first.pdf"))
		done <- err
	}()
	<-backend.UploadStarted

	_, err := sess.UploadLessonMedia(context.Background(), "101", pdfFile("second.pdf"))
	assert.Equal(t, ErrUploadInProgress, err)
	assert.Equal(t, 1, sess.View().Uploads)

	close(backend.UploadRelease)
	require.NoError(t, <-done)
	lsn, _ := sess.Tree().FindLesson("101")
	assert.Equal(t, "http://lms.test/media/document/first.pdf", lsn.URL)
}

func TestSession_UploadResultDroppedForDeletedLesson(t *testing.T) {
	sess, backend, _ := newTestSession(t, pdfCourse())
	backend.UploadStarted = make(chan struct{})
	backend.UploadRelease = make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := sess.UploadLessonMedia(context.Background(), "101", pdfFile("late.pdf"))
		done <- err
	}()
	<-backend.UploadStarted
	sess.DeleteLesson("101")
	before := sess.Tree()

	close(backend.UploadRelease)
	require.NoError(t, <-done)
	assert.Equal(t, before, sess.Tree())
}

func TestSession_UploadDialogMedia(t *testing.T) {
	sess, backend, _ := newTestSession(t, pdfCourse())

	_, err := sess.UploadDialogMedia(context.Background(), pdfFile("x.pdf"))
	assert.Equal(t, ErrDialogClosed, err)

	require.True(t, sess.OpenCreateLesson("1"))
	require.NoError(t, sess.SetLessonForm(course.LessonForm{Title: "Handout", Type: course.LessonPDF}))
	res, err := sess.UploadDialogMedia(context.Background(), pdfFile("handout.pdf"))
	require.NoError(t, err)

	form := sess.View().Dialogs[1].Form.(course.LessonForm)
	assert.Equal(t, res.URL, form.URL)
	assert.Equal(t, course.URLModeUpload, form.URLMode)

	id, err := sess.ConfirmLesson()
	require.NoError(t, err)
	lsn, _ := sess.Tree().FindLesson(id)
	assert.Equal(t, res.URL, lsn.URL)

	t.Run("result dropped once the dialog is reopened", func(t *testing.T) {
		backend.UploadStarted = make(chan struct{})
		backend.UploadRelease = make(chan struct{})

		require.True(t, sess.OpenCreateLesson("1"))
		require.NoError(t, sess.SetLessonForm(course.LessonForm{Title: "Other", Type: course.LessonPDF}))
		done := make(chan error)
		go func() {
			_, err := sess.UploadDialogMedia(context.Background(), pdfFile("stale.pdf"))
			done <- err
		}()
		<-backend.UploadStarted

		sess.CancelLesson()
		require.True(t, sess.OpenCreateLesson("1"))
		close(backend.UploadRelease)
		require.NoError(t, <-done)

		form := sess.View().Dialogs[1].Form.(course.LessonForm)
		assert.Empty(t, form.URL)
	})

	t.Run("quiz takes no upload", func(t *testing.T) {
		backend.UploadStarted = nil
		require.NoError(t, sess.SetLessonForm(course.LessonForm{Title: "Quiz", Type: course.LessonQuiz}))
		_, err := sess.UploadDialogMedia(context.Background(), pdfFile("q.pdf"))
		assert.Equal(t, course.ErrNoUploadKind, errors.Cause(err))
	})
}
