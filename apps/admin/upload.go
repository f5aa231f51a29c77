package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
)

// at most this many files are sent at once
const maxParallelUploads = 4

type lessonFile struct {
	lessonID course.ID
	path     string
}

// parseUploads reads LESSON_ID=PATH arguments.
func parseUploads(args []string) ([]lessonFile, error) {
	if len(args) == 0 {
		return nil, errHelp
	}
	files := make([]lessonFile, 0, len(args))
	seen := make(map[course.ID]bool, len(args))
	for _, arg := range args {
		id, path, ok := strings.Cut(arg, "=")
		if !ok || id == "" || path == "" {
			return nil, errors.Errorf("invalid upload %q: expected LESSON_ID=PATH", arg)
		}
		lessonID := course.ID(id)
		if seen[lessonID] {
			return nil, errors.Errorf("lesson %s is listed more than once", id)
		}
		seen[lessonID] = true
		files = append(files, lessonFile{lessonID: lessonID, path: path})
	}
	return files, nil
}

// upload sends the files concurrently, each result being merged into the Draft Tree.
// The first failure cancels the uploads still running.
func (cli *commandLine) upload(ctx context.Context, sess *editor.Session, files []lessonFile) error {
	var mu sync.Mutex // guards cli.out
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for _, lf := range files {
		lf := lf
		g.Go(func() error {
			f, err := os.Open(lf.path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			res, err := sess.UploadLessonMedia(ctx, lf.lessonID, course.File{Name: filepath.Base(lf.path), Size: info.Size(), Content: f})
			if err != nil {
				return errors.Wrapf(err, "uploading %s", lf.path)
			}
			mu.Lock()
			fmt.Fprintf(cli.out, "%s -> lesson %s: %s\n", lf.path, lf.lessonID, res.URL)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
