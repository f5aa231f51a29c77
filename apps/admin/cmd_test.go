package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
	testutil "github.com/trezcool/coursebuilder/tests"
)

var pdfContent = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func setup(t *testing.T) (*commandLine, *testutil.Backend, *bytes.Buffer) {
	t.Helper()
	crs := testutil.Course("1", "Go 101", 2, 2)
	crs.Modules[0].Lessons[0].Type = course.LessonPDF
	backend := testutil.NewBackend(crs)

	origIsTerminal, origConfirm := isTerminalFunc, confirmFunc
	isTerminalFunc = func(int) bool { return true }
	confirmFunc = func(io.Writer, io.Reader, string) (bool, error) { return true, nil }
	t.Cleanup(func() {
		isTerminalFunc, confirmFunc = origIsTerminal, origConfirm
	})

	var out bytes.Buffer
	return &commandLine{
		opts: editor.Options{
			Backend:  backend,
			Notifier: new(testutil.Notifier),
			Logger:   testutil.Logger{},
			Limits:   course.UploadLimits{course.UploadDocument: 1 << 10},
		},
		out: &out,
	}, backend, &out
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func moduleIDs(crs course.Course) []course.ID {
	ids := make([]course.ID, 0, len(crs.Modules))
	for _, m := range crs.Modules {
		ids = append(ids, m.ID)
	}
	return ids
}

func Test_commandLine_args(t *testing.T) {
	cli, backend, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no course", args: []string{"outline"}, wantErr: errHelp},
		{name: "help flag", args: []string{"outline", "-h"}, wantErr: errHelp},
		{name: "reorder: no destination", args: []string{"reorder-modules", "-course", "1", "-source", "1"}, wantErr: errHelp},
		{name: "delete-module: no module", args: []string{"delete-module", "-course", "1"}, wantErr: errHelp},
		{name: "delete-lesson: no lesson", args: []string{"delete-lesson", "-course", "1"}, wantErr: errHelp},
		{name: "upload: no files", args: []string{"upload", "-course", "1"}, wantErr: errHelp},
		{name: "unknown course", args: []string{"outline", "-course", "9"}, wantErr: course.ErrCourseNotFound},
		{name: "unknown module", args: []string{"delete-module", "-course", "1", "-module", "9"}, wantErr: errModuleNotFound},
		{name: "unknown lesson", args: []string{"delete-lesson", "-course", "1", "-lesson", "9"}, wantErr: editor.ErrLessonNotFound},
		{name: "cross module reorder", args: []string{"reorder-lessons", "-course", "1", "-source", "101", "-destination", "201"}, wantErr: errOtherModule},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	assert.Zero(t, backend.SaveCalls)
}

func Test_commandLine_outline(t *testing.T) {
	cli, _, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "outline", "-course", "1"}))
	got := out.String()
	assert.Contains(t, got, "Go 101")
	assert.Contains(t, got, "[1]")
	assert.Contains(t, got, "Lesson 102")
	assert.Contains(t, got, "pdf")
	assert.Contains(t, got, "Lesson 202")
}

func Test_commandLine_edit(t *testing.T) {
	t.Run("reorder modules", func(t *testing.T) {
		cli, backend, out := setup(t)
		require.NoError(t, cli.run([]string{"admin", "reorder-modules", "-course", "1", "-source", "2", "-destination", "1"}))
		assert.Contains(t, out.String(), "--- saved")
		assert.Contains(t, out.String(), "Course structure saved")
		assert.Equal(t, []course.ID{"2", "1"}, moduleIDs(backend.Course(t, "1")))
	})

	t.Run("reorder lessons", func(t *testing.T) {
		cli, backend, _ := setup(t)
		require.NoError(t, cli.run([]string{"admin", "reorder-lessons", "-course", "1", "-source", "202", "-destination", "201"}))
		lessons := backend.Course(t, "1").Modules[1].Lessons
		require.Len(t, lessons, 2)
		assert.Equal(t, course.ID("202"), lessons[0].ID)
		assert.Equal(t, 1, lessons[0].Order)
	})

	t.Run("no changes", func(t *testing.T) {
		cli, backend, out := setup(t)
		require.NoError(t, cli.run([]string{"admin", "reorder-modules", "-course", "1", "-source", "1", "-destination", "1"}))
		assert.Contains(t, out.String(), "No changes.")
		assert.Zero(t, backend.SaveCalls)
	})

	t.Run("declined", func(t *testing.T) {
		cli, backend, _ := setup(t)
		confirmFunc = func(io.Writer, io.Reader, string) (bool, error) { return false, nil }
		err := cli.run([]string{"admin", "delete-module", "-course", "1", "-module", "1"})
		assert.Equal(t, errAborted, err)
		assert.Zero(t, backend.SaveCalls)
		assert.Len(t, backend.Course(t, "1").Modules, 2)
	})

	t.Run("not a terminal", func(t *testing.T) {
		cli, backend, _ := setup(t)
		isTerminalFunc = func(int) bool { return false }
		err := cli.run([]string{"admin", "delete-lesson", "-course", "1", "-lesson", "101"})
		assert.Equal(t, errNotInteractive, err)
		assert.Zero(t, backend.SaveCalls)

		require.NoError(t, cli.run([]string{"admin", "delete-lesson", "-course", "1", "-yes", "-lesson", "101"}))
		lessons := backend.Course(t, "1").Modules[0].Lessons
		require.Len(t, lessons, 1)
		assert.Equal(t, course.ID("102"), lessons[0].ID)
	})

	t.Run("save failure", func(t *testing.T) {
		cli, backend, _ := setup(t)
		backend.SaveErr = testutil.ErrBackendDown
		err := cli.run([]string{"admin", "delete-module", "-course", "1", "-module", "2"})
		assert.ErrorIs(t, err, testutil.ErrBackendDown)
	})
}

func Test_commandLine_upload(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notes, pdfContent, 0o600))

	t.Run("invalid argument", func(t *testing.T) {
		cli, _, _ := setup(t)
		err := cli.run([]string{"admin", "upload", "-course", "1", notes})
		assert.Error(t, err)
	})

	t.Run("duplicated lesson", func(t *testing.T) {
		cli, _, _ := setup(t)
		err := cli.run([]string{"admin", "upload", "-course", "1", "101=" + notes, "101=" + notes})
		assert.Error(t, err)
	})

	t.Run("wrong lesson type", func(t *testing.T) {
		cli, backend, _ := setup(t)
		err := cli.run([]string{"admin", "upload", "-course", "1", "-yes", "102=" + notes})
		assert.ErrorIs(t, err, course.ErrInvalidFileType)
		assert.Empty(t, backend.Uploaded)
		assert.Zero(t, backend.SaveCalls)
	})

	t.Run("missing file", func(t *testing.T) {
		cli, _, _ := setup(t)
		err := cli.run([]string{"admin", "upload", "-course", "1", "-yes", "101=" + filepath.Join(dir, "nope.pdf")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("success", func(t *testing.T) {
		cli, backend, out := setup(t)
		require.NoError(t, cli.run([]string{"admin", "upload", "-course", "1", "-yes", "101=" + notes}))
		assert.Equal(t, []string{"notes.pdf"}, backend.Uploaded)
		assert.Contains(t, out.String(), "http://lms.test/media/document/notes.pdf")
		assert.Equal(t, "http://lms.test/media/document/notes.pdf", backend.Course(t, "1").Modules[0].Lessons[0].URL)
	})
}

func Test_readConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n"},
		{input: "\n"},
		{input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readConfirmation(&out, bytes.NewBufferString(tt.input), "Save?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Save? [y/N] ", out.String())
		})
	}
}
