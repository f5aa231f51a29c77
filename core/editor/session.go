package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
)

var (
	ErrSaveInProgress   = errors.New("a save is already in progress")
	ErrUploadInProgress = errors.New("an upload is already in progress for this target")
	ErrDialogClosed     = errors.New("dialog is not open")
	ErrNotLoaded        = errors.New("course is not loaded")
	ErrLessonNotFound   = errors.New("lesson not found")
)

// nowFunc is used to stamp notifications (can be overridden in tests)
var nowFunc = time.Now

type (
	Options struct {
		Backend  course.Backend
		Notifier core.Notifier
		Logger   core.Logger
		Limits   course.UploadLimits
	}

	// Session is the single owner of a course Draft Tree and of its dialogs.
	// Tree transitions run synchronously under the session lock; network calls
	// (save, upload, refetch) run outside of it.
	Session struct {
		mu       sync.Mutex
		id       string
		courseID course.ID
		opts     Options

		course    course.Course
		canonical course.Tree // as last fetched from the backend
		draft     course.Tree
		loaded    bool

		modules   Dialog[course.ModuleForm]
		lessons   LessonDialog
		questions QuestionDialog

		saving  bool
		uploads map[string]struct{}
		inbox   []core.Notification

		lastUsed time.Time
	}

	// View is the serializable state of a Session.
	View struct {
		ID       string          `json:"id"`
		CourseID course.ID       `json:"course_id"`
		Title    string          `json:"title"`
		Modules  []course.Module `json:"modules"`
		Dirty    bool            `json:"dirty"`
		Saving   bool            `json:"saving"`
		Uploads  int             `json:"uploads"`
		Dialogs  []DialogView    `json:"dialogs"`
	}
)

// isSet checks interface dependencies without reflection: vala.IsNotNil panics on struct values.
func isSet(ok bool, paramName string) vala.Checker {
	return func() (bool, string) {
		return ok, "Parameter was nil: " + paramName
	}
}

func NewSession(courseID course.ID, opts Options) (*Session, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(string(courseID), "courseID"),
		isSet(opts.Backend != nil, "opts.Backend"),
		isSet(opts.Notifier != nil, "opts.Notifier"),
		isSet(opts.Logger != nil, "opts.Logger"),
	).Check()
	if err != nil {
		return nil, err
	}
	return &Session{
		id:       uuid.NewString(),
		courseID: courseID,
		opts:     opts,
		uploads:  make(map[string]struct{}),
		lastUsed: nowFunc(),
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) CourseID() course.ID { return s.courseID }

// Load fetches the canonical course and replaces the Draft Tree with it.
func (s *Session) Load(ctx context.Context) error {
	crs, err := s.opts.Backend.FetchCourse(ctx, s.courseID)
	if err != nil {
		s.mu.Lock()
		s.notify(core.LevelError, "Failed to load course", err.Error())
		s.mu.Unlock()
		return errors.Wrap(err, "fetching course")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCourse(crs)
	return nil
}

func (s *Session) setCourse(crs course.Course) {
	s.course = crs
	s.canonical = course.NewTree(crs.Modules)
	s.draft = s.draft.Replace(crs.Modules)
	s.loaded = true
}

func (s *Session) touch() { s.lastUsed = nowFunc() }

func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Tree returns a copy of the Draft Tree.
func (s *Session) Tree() course.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return View{
		ID:       s.id,
		CourseID: s.courseID,
		Title:    s.course.Title,
		Modules:  s.draft.Clone().Modules,
		Dirty:    !s.draft.Equal(s.canonical),
		Saving:   s.saving,
		Uploads:  len(s.uploads),
		Dialogs: []DialogView{
			viewDialog(KindModule, &s.modules, ""),
			viewDialog(KindLesson, &s.lessons.Dialog, s.lessons.module),
			viewDialog(KindQuestion, &s.questions.Dialog, s.questions.lesson),
		},
	}
}

// Dirty reports whether the Draft Tree holds unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.draft.Equal(s.canonical)
}

// Diff returns a unified diff from the saved course structure to the Draft Tree.
func (s *Session) Diff() (string, error) {
	s.mu.Lock()
	saved, draft := s.canonical.Clone(), s.draft.Clone()
	s.mu.Unlock()
	return Diff(saved, draft)
}

// Notifications drains the session notifications inbox.
func (s *Session) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.inbox
	s.inbox = nil
	return ns
}

// notify must be called with the lock held.
func (s *Session) notify(level core.Level, title, msg string) {
	n := core.Notification{Level: level, Title: title, Message: msg, Time: nowFunc().UTC()}
	s.inbox = append(s.inbox, n)
	s.opts.Notifier.Notify(n)
}

// Module dialog

func (s *Session) OpenCreateModule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.modules.openCreate(course.ModuleForm{})
}

// OpenEditModule opens the module dialog pre-filled from the module. It stays closed if the module is unknown.
func (s *Session) OpenEditModule(id course.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	mod, _, ok := s.draft.FindModule(id)
	if !ok {
		return false
	}
	s.modules.openEdit(id, course.ModuleFormFrom(mod))
	return true
}

func (s *Session) SetModuleForm(form course.ModuleForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.modules.IsOpen() {
		return ErrDialogClosed
	}
	s.modules.form = form
	return nil
}

// ConfirmModule validates the module form and applies it to the Draft Tree.
// On a validation error the dialog stays open and the tree is untouched.
func (s *Session) ConfirmModule() (course.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.modules.IsOpen() {
		return "", ErrDialogClosed
	}
	form := s.modules.form
	if err := form.Validate(); err != nil {
		return "", err
	}
	s.modules.form = form

	id := s.modules.target
	switch s.modules.mode {
	case Create:
		s.draft, id = s.draft.AddModule(form.Title, form.Description)
	case Edit:
		s.draft = s.draft.UpdateModule(id, form.Data())
	}
	s.modules.close()
	return id, nil
}

func (s *Session) CancelModule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules.close()
}

// Lesson dialog

// OpenCreateLesson opens the lesson dialog to add a lesson to the module.
func (s *Session) OpenCreateLesson(moduleID course.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if _, _, ok := s.draft.FindModule(moduleID); !ok {
		return false
	}
	s.lessons.openCreate(course.NewLessonForm())
	s.lessons.module = moduleID
	return true
}

func (s *Session) OpenEditLesson(lessonID course.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	lsn, ok := s.draft.FindLesson(lessonID)
	if !ok {
		return false
	}
	s.lessons.openEdit(lessonID, course.LessonFormFrom(lsn))
	s.lessons.module = lsn.ModuleID
	return true
}

// SetLessonForm replaces the lesson form. A url input mode change clears the url of the previous mode.
func (s *Session) SetLessonForm(form course.LessonForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lessons.IsOpen() {
		return ErrDialogClosed
	}
	cur := s.lessons.form
	if form.URLMode == "" {
		form.URLMode = cur.URLMode
	}
	if form.URLMode != cur.URLMode && form.URL == cur.URL {
		form.URL = ""
	}
	s.lessons.form = form
	return nil
}

// SetLessonURLMode switches the url input mode of the lesson form.
func (s *Session) SetLessonURLMode(mode course.URLMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lessons.IsOpen() {
		return ErrDialogClosed
	}
	s.lessons.form.SetURLMode(mode)
	return nil
}

func (s *Session) ConfirmLesson() (course.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.lessons.IsOpen() {
		return "", ErrDialogClosed
	}
	form := s.lessons.form
	if err := form.Validate(s.draft, s.lessons.target); err != nil {
		return "", err
	}
	s.lessons.form = form

	id := s.lessons.target
	switch s.lessons.mode {
	case Create:
		s.draft, id = s.draft.AddLesson(s.lessons.module, form.Data())
	case Edit:
		s.draft = s.draft.UpdateLesson(s.lessons.module, id, form.Data())
	}
	s.lessons.close()
	return id, nil
}

func (s *Session) CancelLesson() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessons.close()
}

// Question dialog

func (s *Session) OpenCreateQuestion(lessonID course.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if lsn, ok := s.draft.FindLesson(lessonID); !ok || lsn.Type != course.LessonQuiz {
		return false
	}
	s.questions.openCreate(lessonID, course.NewQuestionForm())
	return true
}

func (s *Session) OpenEditQuestion(lessonID, questionID course.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	q, ok := s.draft.FindQuestion(lessonID, questionID)
	if !ok {
		return false
	}
	s.questions.openEdit(lessonID, questionID, course.QuestionFormFrom(q))
	return true
}

// SetQuestionForm replaces the question text, options, answer and points.
// The question type only changes through SetQuestionType.
func (s *Session) SetQuestionForm(form course.QuestionForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.questions.IsOpen() {
		return ErrDialogClosed
	}
	form.Type = s.questions.form.Type
	s.questions.form = form
	return nil
}

// SetQuestionType changes the question type, resetting options and answer when it differs from the previous one.
func (s *Session) SetQuestionType(t course.QuestionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.questions.IsOpen() {
		return ErrDialogClosed
	}
	s.questions.setType(t)
	return nil
}

func (s *Session) ConfirmQuestion() (course.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !s.questions.IsOpen() {
		return "", ErrDialogClosed
	}
	form := s.questions.form
	if err := form.Validate(); err != nil {
		return "", err
	}
	s.questions.form = form

	id := s.questions.target
	switch s.questions.mode {
	case Create:
		s.draft, id = s.draft.AddQuestion(s.questions.lesson, form.Question())
	case Edit:
		s.draft = s.draft.UpdateQuestion(s.questions.lesson, id, form.Question())
	}
	s.questions.close()
	return id, nil
}

func (s *Session) CancelQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions.close()
}

// Direct tree actions

func (s *Session) DeleteModule(id course.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = s.draft.DeleteModule(id)
}

func (s *Session) DeleteLesson(id course.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = s.draft.DeleteLesson(id)
}

func (s *Session) DeleteQuestion(lessonID, questionID course.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = s.draft.DeleteQuestion(lessonID, questionID)
}

func (s *Session) ReorderModules(sourceID, destinationID course.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = s.draft.ReorderModules(sourceID, destinationID)
}

func (s *Session) ReorderLessons(moduleID, sourceID, destinationID course.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.draft = s.draft.ReorderLessons(moduleID, sourceID, destinationID)
}

// PrerequisiteCandidates lists the lessons that lessonID can depend on.
func (s *Session) PrerequisiteCandidates(lessonID course.ID) []course.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.PrerequisiteCandidates(lessonID)
}

// Save Structure

// Save submits the whole Draft Tree to the backend then replaces it with the refetched canonical course.
// On failure the Draft Tree is left untouched and an error notification is raised.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.saving = true
	s.touch()
	snapshot := s.draft.Clone()
	s.mu.Unlock()

	crs, saved, err := s.save(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.opts.Logger.Error("saving course structure", err, core.Fields{"course_id": s.courseID, "session": s.id})
		if saved {
			s.notify(core.LevelError, "Failed to reload course", "The structure was saved but the course could not be reloaded: "+err.Error())
		} else {
			s.notify(core.LevelError, "Failed to save course structure", err.Error())
		}
		return err
	}
	s.setCourse(crs)
	s.notify(core.LevelSuccess, "Course structure saved", fmt.Sprintf("%d module(s) saved.", len(crs.Modules)))
	return nil
}

// save reports whether the modules were saved even when the refetch fails.
func (s *Session) save(ctx context.Context, snapshot course.Tree) (course.Course, bool, error) {
	if err := s.opts.Backend.SaveModules(ctx, s.courseID, snapshot.Modules); err != nil {
		return course.Course{}, false, errors.Wrap(err, "saving modules")
	}
	crs, err := s.opts.Backend.FetchCourse(ctx, s.courseID)
	if err != nil {
		return course.Course{}, true, errors.Wrap(err, "refetching course")
	}
	return crs, true, nil
}

func (s *Session) idleSince(deadline time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.saving && len(s.uploads) == 0 && s.lastUsed.Before(deadline)
}
