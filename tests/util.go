package testutil

import (
	"context"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
)

var ErrBackendDown = errors.New("backend unavailable")

// Backend is an in-memory course.Backend. Saved modules get server ids.
type Backend struct {
	mu      sync.Mutex
	courses map[course.ID]course.Course
	nextID  int

	SaveErr   error
	FetchErr  error
	UploadErr error

	// When set, *Started receives a value as the call starts, which then
	// waits for *Release to be closed (or to receive).
	SaveStarted   chan struct{}
	SaveRelease   chan struct{}
	UploadStarted chan struct{}
	UploadRelease chan struct{}

	SaveCalls int
	Uploaded  []string // names of uploaded files
	UploadDur *float64
}

var _ course.Backend = (*Backend)(nil)

func NewBackend(courses ...course.Course) *Backend {
	b := &Backend{courses: make(map[course.ID]course.Course), nextID: 1000}
	for _, crs := range courses {
		b.courses[crs.ID] = crs
	}
	return b
}

func (b *Backend) FetchCourse(_ context.Context, courseID course.ID) (course.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FetchErr != nil {
		return course.Course{}, b.FetchErr
	}
	crs, ok := b.courses[courseID]
	if !ok {
		return course.Course{}, course.ErrCourseNotFound
	}
	crs.Modules = course.NewTree(crs.Modules).Modules
	return crs, nil
}

func (b *Backend) SaveModules(ctx context.Context, courseID course.ID, modules []course.Module) error {
	if err := wait(ctx, b.SaveStarted, b.SaveRelease); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.SaveCalls++
	if b.SaveErr != nil {
		return b.SaveErr
	}
	crs, ok := b.courses[courseID]
	if !ok {
		return course.ErrCourseNotFound
	}
	modules = course.NewTree(modules).Modules
	for i := range modules {
		mod := &modules[i]
		if mod.ID.IsTemp() {
			mod.ID = b.newID()
		}
		for j := range mod.Lessons {
			lsn := &mod.Lessons[j]
			if lsn.ID.IsTemp() {
				lsn.ID = b.newID()
			}
			lsn.ModuleID = mod.ID
			for k := range lsn.Questions {
				if lsn.Questions[k].ID.IsTemp() {
					lsn.Questions[k].ID = b.newID()
				}
			}
		}
	}
	crs.Modules = modules
	b.courses[courseID] = crs
	return nil
}

func (b *Backend) Upload(ctx context.Context, kind course.UploadKind, file course.File) (course.UploadResult, error) {
	if err := wait(ctx, b.UploadStarted, b.UploadRelease); err != nil {
		return course.UploadResult{}, err
	}
	if _, err := io.Copy(io.Discard, file.Content); err != nil {
		return course.UploadResult{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UploadErr != nil {
		return course.UploadResult{}, b.UploadErr
	}
	b.Uploaded = append(b.Uploaded, file.Name)
	return course.UploadResult{
		URL:      "http://lms.test/media/" + string(kind) + "/" + file.Name,
		Duration: b.UploadDur,
	}, nil
}

func wait(ctx context.Context, started, release chan struct{}) error {
	if started == nil {
		return nil
	}
	started <- struct{}{}
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Course returns the course as currently stored.
func (b *Backend) Course(t *testing.T, courseID course.ID) course.Course {
	t.Helper()
	crs, err := b.FetchCourse(context.Background(), courseID)
	if err != nil {
		t.Fatalf("Course() failed: %v", err)
	}
	return crs
}

func (b *Backend) newID() course.ID {
	b.nextID++
	return course.ID(strconv.Itoa(b.nextID))
}

// Notifier records notifications.
type Notifier struct {
	mu   sync.Mutex
	Sent []core.Notification
}

func (n *Notifier) Notify(notif core.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, notif)
}

func (n *Notifier) Errors() []core.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []core.Notification
	for _, notif := range n.Sent {
		if notif.IsError() {
			errs = append(errs, notif)
		}
	}
	return errs
}

// Logger discards everything.
type Logger struct{}

var _ core.Logger = Logger{}

func (Logger) Debug(string, ...interface{}) {}
func (Logger) Info(string, ...interface{}) {}
func (Logger) Warn(string, ...interface{}) {}
func (Logger) Error(string, ...interface{}) {}
func (Logger) Fatal(string, ...interface{}) {}

// Course builds a saved course with numbered ids:
// module i (1-based) gets id "i" and its lessons ids "i0j".
func Course(id course.ID, title string, lessonsPerModule ...int) course.Course {
	crs := course.Course{ID: id, Title: title}
	for i, n := range lessonsPerModule {
		modID := course.ID(strconv.Itoa(i + 1))
		mod := course.Module{ID: modID, Title: "Module " + string(modID), Description: "About " + string(modID), Order: i + 1}
		for j := 1; j <= n; j++ {
			lsnID := course.ID(string(modID) + "0" + strconv.Itoa(j))
			mod.Lessons = append(mod.Lessons, course.Lesson{
				ID:       lsnID,
				ModuleID: modID,
				Title:    "Lesson " + string(lsnID),
				Type:     course.LessonVideo,
				Order:    j,
			})
		}
		crs.Modules = append(crs.Modules, mod)
	}
	return crs
}
