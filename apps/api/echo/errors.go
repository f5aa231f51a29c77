package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
	"github.com/trezcool/coursebuilder/services/lmsapi"
)

var (
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

	// domain errors with a dedicated status code
	errorCodes = []struct {
		err  error
		code int
	}{
		{editor.ErrSessionNotFound, http.StatusNotFound},
		{editor.ErrLessonNotFound, http.StatusNotFound},
		{course.ErrCourseNotFound, http.StatusNotFound},
		{editor.ErrSaveInProgress, http.StatusConflict},
		{editor.ErrUploadInProgress, http.StatusConflict},
		{editor.ErrDialogClosed, http.StatusConflict},
		{editor.ErrNotLoaded, http.StatusConflict},
		{course.ErrEmptyFile, http.StatusBadRequest},
		{course.ErrInvalidFileType, http.StatusBadRequest},
		{course.ErrNoUploadKind, http.StatusBadRequest},
		{course.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	}
)

func domainErrorCode(err error) (int, bool) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *lmsapi.APIError:
			code = http.StatusBadGateway
			message = err.Error()
			logger.Warn("lms api error", err, core.Fields{"path": ctx.Path()})
		default:
			if c, ok := domainErrorCode(err); ok {
				code = c
				message = err.Error()
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), core.Fields{"path": ctx.Path(), "method": ctx.Request().Method})

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
