package course

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var ErrCourseNotFound = errors.New("course not found")

type (
	// Backend is the LMS REST collaborator owning the canonical course content.
	Backend interface {
		FetchCourse(ctx context.Context, courseID ID) (Course, error)
		// SaveModules persists the complete module list (with nested lessons) in one call.
		SaveModules(ctx context.Context, courseID ID, modules []Module) error
		Upload(ctx context.Context, kind UploadKind, file File) (UploadResult, error)
	}

	File struct {
		Name    string
		Size    int64
		Content io.Reader
	}

	// UploadResult is returned by the backend once a file is stored.
	// Duration is only known for media the backend can probe.
	UploadResult struct {
		URL            string   `json:"url"`
		Duration       *float64 `json:"duration,omitempty"`
		DurationMethod string   `json:"durationMethod,omitempty"`
	}
)
