package editor

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
)

// UploadLessonMedia uploads the media of a lesson already in the Draft Tree and merges
// the resulting url (and duration once known) into it.
// The result is dropped if the lesson was deleted meanwhile.
func (s *Session) UploadLessonMedia(ctx context.Context, lessonID course.ID, file course.File) (course.UploadResult, error) {
	s.mu.Lock()
	lsn, ok := s.draft.FindLesson(lessonID)
	if !ok {
		s.mu.Unlock()
		return course.UploadResult{}, ErrLessonNotFound
	}
	key := "lesson:" + lessonID.String()
	release, err := s.beginUpload(key)
	s.mu.Unlock()
	if err != nil {
		return course.UploadResult{}, err
	}
	defer release()

	res, err := s.upload(ctx, lsn.Type, file)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.draft.SetLessonMedia(lessonID, res.URL, res.Duration)
	return res, nil
}

// UploadDialogMedia uploads the media of the lesson being added or edited in the lesson dialog.
// The result fills the dialog form only if that same dialog is still open.
func (s *Session) UploadDialogMedia(ctx context.Context, file course.File) (course.UploadResult, error) {
	s.mu.Lock()
	if !s.lessons.IsOpen() {
		s.mu.Unlock()
		return course.UploadResult{}, ErrDialogClosed
	}
	gen := s.lessons.generation
	lessonType := s.lessons.form.Type
	release, err := s.beginUpload(fmt.Sprintf("dialog:%d", gen))
	s.mu.Unlock()
	if err != nil {
		return course.UploadResult{}, err
	}
	defer release()

	res, err := s.upload(ctx, lessonType, file)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lessons.isGeneration(gen) {
		s.lessons.form.URLMode = course.URLModeUpload
		s.lessons.form.URL = res.URL
		if res.Duration != nil {
			d := *res.Duration
			s.lessons.form.Duration = &d
		}
	}
	return res, nil
}

// beginUpload marks key as pending. It must be called with the lock held.
func (s *Session) beginUpload(key string) (func(), error) {
	if _, ok := s.uploads[key]; ok {
		return nil, ErrUploadInProgress
	}
	s.uploads[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.uploads, key)
		s.mu.Unlock()
	}, nil
}

// upload checks the file locally then sends it to the backend. Failures raise an error notification.
func (s *Session) upload(ctx context.Context, lessonType course.LessonType, file course.File) (course.UploadResult, error) {
	res, err := s.doUpload(ctx, lessonType, file)
	if err != nil {
		s.mu.Lock()
		s.notify(core.LevelError, "Upload failed", err.Error())
		s.mu.Unlock()
		return course.UploadResult{}, err
	}
	s.mu.Lock()
	s.notify(core.LevelSuccess, "File uploaded", file.Name)
	s.mu.Unlock()
	return res, nil
}

func (s *Session) doUpload(ctx context.Context, lessonType course.LessonType, file course.File) (course.UploadResult, error) {
	kind, err := course.KindForLessonType(lessonType)
	if err != nil {
		return course.UploadResult{}, err
	}
	file, _, err = s.opts.Limits.CheckUpload(kind, file)
	if err != nil {
		return course.UploadResult{}, err
	}
	res, err := s.opts.Backend.Upload(ctx, kind, file)
	if err != nil {
		return course.UploadResult{}, errors.Wrapf(err, "uploading %s", file.Name)
	}
	return res, nil
}
