package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
)

const (
	sessionKey = "session"
	uploadFile = "file"

	multipartSlack = 1 << 20
)

type sessionApi struct {
	mgr      *editor.Manager
	validate *validator.Validate
	limits   core.UploadConfig
}

func registerSessionAPI(g *echo.Group, mgr *editor.Manager, validate *validator.Validate, limits core.UploadConfig) {
	api := sessionApi{
		mgr:      mgr,
		validate: validate,
		limits:   limits,
	}

	sg := g.Group("/sessions")
	sg.POST("", api.open)

	// detail endpoints
	dg := sg.Group("/:id", api.sessionMiddleware)
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/reload", api.reload)
	dg.POST("/save", api.save)
	dg.GET("/diff", api.diff)
	dg.GET("/notifications", api.notifications)

	// dialogs
	dg.POST("/dialogs/:kind", api.openDialog)
	dg.PATCH("/dialogs/:kind", api.setDialogForm)
	dg.DELETE("/dialogs/:kind", api.cancelDialog)
	dg.POST("/dialogs/:kind/confirm", api.confirmDialog)
	dg.PUT("/dialogs/question/type", api.setQuestionType)
	dg.POST("/dialogs/lesson/upload", api.uploadDialogMedia, api.bodyLimit())

	// tree
	dg.POST("/modules/reorder", api.reorderModules)
	dg.DELETE("/modules/:moduleID", api.deleteModule)
	dg.POST("/modules/:moduleID/lessons/reorder", api.reorderLessons)
	dg.DELETE("/lessons/:lessonID", api.deleteLesson)
	dg.GET("/lessons/:lessonID/prerequisites", api.prerequisites)
	dg.POST("/lessons/:lessonID/upload", api.uploadLessonMedia, api.bodyLimit())
	dg.DELETE("/lessons/:lessonID/questions/:questionID", api.deleteQuestion)
}

// sessionMiddleware loads the session from the `:id` path param into the context.
func (api *sessionApi) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := api.mgr.Get(ctx.Param("id"))
		if err != nil {
			return err
		}
		ctx.Set(sessionKey, sess)
		return next(ctx)
	}
}

// bodyLimit rejects upload requests larger than the biggest accepted file (plus multipart overhead).
func (api *sessionApi) bodyLimit() echo.MiddlewareFunc {
	limit := api.limits.MaxVideoSize
	for _, size := range []int64{api.limits.MaxAudioSize, api.limits.MaxDocumentSize, api.limits.MaxImageSize} {
		if size > limit {
			limit = size
		}
	}
	return middleware.BodyLimit(strconv.FormatInt(limit+multipartSlack, 10))
}

func getContextSession(ctx echo.Context) *editor.Session {
	return ctx.Get(sessionKey).(*editor.Session)
}

func pathID(ctx echo.Context, name string) course.ID {
	return course.ID(ctx.Param(name))
}

func dialogKind(ctx echo.Context) (editor.Kind, error) {
	kind := editor.Kind(ctx.Param("kind"))
	if !kind.IsValid() {
		return "", errHttpNotFound
	}
	return kind, nil
}

// Handlers

func (api *sessionApi) open(ctx echo.Context) error {
	var data OpenSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OpenSessionRequest")
	}
	if err := validateRequest(api.validate, data); err != nil {
		return err
	}

	sess, err := api.mgr.Open(ctx.Request().Context(), data.CourseID)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	return ctx.JSON(http.StatusCreated, sess.View())
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, getContextSession(ctx).View())
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if err := api.mgr.Close(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) reload(ctx echo.Context) error {
	sess := getContextSession(ctx)
	if err := sess.Load(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "reloading course")
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) save(ctx echo.Context) error {
	sess := getContextSession(ctx)
	if err := sess.Save(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) diff(ctx echo.Context) error {
	diff, err := getContextSession(ctx).Diff()
	if err != nil {
		return errors.Wrap(err, "computing diff")
	}
	return ctx.JSON(http.StatusOK, DiffResponse{Dirty: diff != "", Diff: diff})
}

func (api *sessionApi) notifications(ctx echo.Context) error {
	notifs := getContextSession(ctx).Notifications()
	if notifs == nil {
		notifs = []core.Notification{}
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *sessionApi) openDialog(ctx echo.Context) error {
	kind, err := dialogKind(ctx)
	if err != nil {
		return err
	}
	var data OpenDialogRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OpenDialogRequest")
	}
	if err := validateRequest(api.validate, data); err != nil {
		return err
	}

	sess := getContextSession(ctx)
	opened := true
	switch {
	case kind == editor.KindModule && data.Mode == "create":
		sess.OpenCreateModule()
	case kind == editor.KindModule:
		opened = sess.OpenEditModule(data.TargetID)
	case kind == editor.KindLesson && data.Mode == "create":
		opened = sess.OpenCreateLesson(data.ParentID)
	case kind == editor.KindLesson:
		opened = sess.OpenEditLesson(data.TargetID)
	case kind == editor.KindQuestion && data.Mode == "create":
		opened = sess.OpenCreateQuestion(data.ParentID)
	case kind == editor.KindQuestion:
		opened = sess.OpenEditQuestion(data.ParentID, data.TargetID)
	}
	if !opened {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) setDialogForm(ctx echo.Context) error {
	kind, err := dialogKind(ctx)
	if err != nil {
		return err
	}

	sess := getContextSession(ctx)
	switch kind {
	case editor.KindModule:
		var form course.ModuleForm
		if err := ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to ModuleForm")
		}
		err = sess.SetModuleForm(form)
	case editor.KindLesson:
		var form course.LessonForm
		if err := ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to LessonForm")
		}
		err = sess.SetLessonForm(form)
	case editor.KindQuestion:
		var form course.QuestionForm
		if err := ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to QuestionForm")
		}
		err = sess.SetQuestionForm(form)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) cancelDialog(ctx echo.Context) error {
	kind, err := dialogKind(ctx)
	if err != nil {
		return err
	}

	sess := getContextSession(ctx)
	switch kind {
	case editor.KindModule:
		sess.CancelModule()
	case editor.KindLesson:
		sess.CancelLesson()
	case editor.KindQuestion:
		sess.CancelQuestion()
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) confirmDialog(ctx echo.Context) error {
	kind, err := dialogKind(ctx)
	if err != nil {
		return err
	}

	sess := getContextSession(ctx)
	var id course.ID
	switch kind {
	case editor.KindModule:
		id, err = sess.ConfirmModule()
	case editor.KindLesson:
		id, err = sess.ConfirmLesson()
	case editor.KindQuestion:
		id, err = sess.ConfirmQuestion()
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ConfirmResponse{ID: id, Session: sess.View()})
}

func (api *sessionApi) setQuestionType(ctx echo.Context) error {
	var data QuestionTypeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionTypeRequest")
	}
	if err := validateRequest(api.validate, data); err != nil {
		return err
	}

	sess := getContextSession(ctx)
	if err := sess.SetQuestionType(data.Type); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) reorderModules(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}
	if err := validateRequest(api.validate, data); err != nil {
		return err
	}

	sess := getContextSession(ctx)
	sess.ReorderModules(data.SourceID, data.DestinationID)
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) reorderLessons(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}
	if err := validateRequest(api.validate, data); err != nil {
		return err
	}

	sess := getContextSession(ctx)
	sess.ReorderLessons(pathID(ctx, "moduleID"), data.SourceID, data.DestinationID)
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) deleteModule(ctx echo.Context) error {
	sess := getContextSession(ctx)
	sess.DeleteModule(pathID(ctx, "moduleID"))
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) deleteLesson(ctx echo.Context) error {
	sess := getContextSession(ctx)
	sess.DeleteLesson(pathID(ctx, "lessonID"))
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) deleteQuestion(ctx echo.Context) error {
	sess := getContextSession(ctx)
	sess.DeleteQuestion(pathID(ctx, "lessonID"), pathID(ctx, "questionID"))
	return ctx.JSON(http.StatusOK, sess.View())
}

func (api *sessionApi) prerequisites(ctx echo.Context) error {
	lessons := getContextSession(ctx).PrerequisiteCandidates(pathID(ctx, "lessonID"))
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *sessionApi) uploadLessonMedia(ctx echo.Context) error {
	file, closeFile, err := api.formFile(ctx)
	if err != nil {
		return err
	}
	defer closeFile()

	res, err := getContextSession(ctx).UploadLessonMedia(ctx.Request().Context(), pathID(ctx, "lessonID"), file)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *sessionApi) uploadDialogMedia(ctx echo.Context) error {
	file, closeFile, err := api.formFile(ctx)
	if err != nil {
		return err
	}
	defer closeFile()

	res, err := getContextSession(ctx).UploadDialogMedia(ctx.Request().Context(), file)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *sessionApi) formFile(ctx echo.Context) (course.File, func(), error) {
	fh, err := ctx.FormFile(uploadFile)
	if err != nil {
		return course.File{}, nil, core.NewValidationError(nil, core.FieldError{Field: uploadFile, Error: "this field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return course.File{}, nil, errors.Wrap(err, "opening uploaded file")
	}
	return course.File{Name: fh.Filename, Size: fh.Size, Content: f}, func() { _ = f.Close() }, nil
}
