// Package stub serves a fake LMS REST API backed by the in-memory database,
// for local development of the course builder.
package stub

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/services/lmsapi"
	inmemdb "github.com/trezcool/coursebuilder/storage/database/inmem"
)

type Deps struct {
	Conf    *core.Config
	Logger  core.Logger
	Courses *inmemdb.CourseRepository
	Media   *inmemdb.MediaRepository
}

type Server struct {
	deps   Deps
	app    *echo.Echo
	limits course.UploadLimits
}

var _ http.Handler = (*Server)(nil)

func NewServer(deps Deps) *Server {
	s := &Server{
		deps:   deps,
		app:    echo.New(),
		limits: course.NewUploadLimits(deps.Conf.Upload),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.HTTPErrorHandler = s.handleError

	api := s.app.Group("/api")
	api.GET("/instructor/courses/:courseId", s.getCourse)
	api.POST("/instructor/courses/:courseId/modules", s.saveModules)
	api.POST("/upload/:kind", s.upload)

	s.app.GET("/media/:name", s.getMedia)
}

func (s *Server) Start() error {
	err := s.app.Start(s.deps.Conf.Stub.Address)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// handleError answers like the LMS does: {"message": "..."}.
func (s *Server) handleError(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		code = origErr.Code
		if m, ok := origErr.Message.(string); ok {
			msg = m
		}
	default:
		switch {
		case errors.Is(err, course.ErrCourseNotFound), errors.Is(err, inmemdb.ErrMediaNotFound):
			code, msg = http.StatusNotFound, err.Error()
		case errors.Is(err, course.ErrFileTooLarge):
			code, msg = http.StatusRequestEntityTooLarge, err.Error()
		case errors.Is(err, course.ErrEmptyFile), errors.Is(err, course.ErrInvalidFileType):
			code, msg = http.StatusBadRequest, err.Error()
		default:
			s.deps.Logger.Error(msg, err, core.Fields{"path": ctx.Path()})
		}
	}

	if !ctx.Response().Committed {
		if err := ctx.JSON(code, echo.Map{"message": msg}); err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func (s *Server) getCourse(ctx echo.Context) error {
	crs, err := s.deps.Courses.GetCourseByID(course.ID(ctx.Param("courseId")))
	if err != nil {
		return err
	}
	b, err := lmsapi.EncodeCourse(crs)
	if err != nil {
		return errors.Wrap(err, "encoding course")
	}
	return ctx.JSONBlob(http.StatusOK, b)
}

func (s *Server) saveModules(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}
	modules, err := lmsapi.DecodeModules(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid modules payload")
	}

	crs, err := s.deps.Courses.SaveModules(course.ID(ctx.Param("courseId")), modules)
	if err != nil {
		return err
	}
	s.deps.Logger.Info("modules saved", core.Fields{"course_id": crs.ID, "modules": len(crs.Modules)})
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// upload stores the multipart file sent under the field named after the kind.
func (s *Server) upload(ctx echo.Context) error {
	kind := course.UploadKind(ctx.Param("kind"))
	if !kind.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown upload kind")
	}
	fh, err := ctx.FormFile(string(kind))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing "+string(kind)+" file")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	file, mtype, err := s.limits.CheckUpload(kind, course.File{Name: fh.Filename, Size: fh.Size, Content: f})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file.Content); err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	media, err := s.deps.Media.CreateMedia(kind, mtype.Extension(), mtype.String(), buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "storing media")
	}
	return ctx.JSON(http.StatusOK, course.UploadResult{
		URL:            ctx.Scheme() + "://" + ctx.Request().Host + "/media/" + media.Name,
		DurationMethod: "none",
	})
}

func (s *Server) getMedia(ctx echo.Context) error {
	media, err := s.deps.Media.GetMedia(ctx.Param("name"))
	if err != nil {
		return err
	}
	// fall back on sniffing for media stored without a content type
	contentType := media.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(media.Content).String()
	}
	return ctx.Blob(http.StatusOK, contentType, media.Content)
}
