package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
)

type (
	OpenSessionRequest struct {
		CourseID course.ID `json:"course_id" validate:"required"`
	}

	// OpenDialogRequest opens a dialog in create or edit mode.
	// ParentID is the module of a new lesson, or the quiz lesson of a question.
	// TargetID is the edited entity.
	OpenDialogRequest struct {
		Mode     string    `json:"mode" validate:"required,oneof=create edit"`
		ParentID course.ID `json:"parent_id"`
		TargetID course.ID `json:"target_id" validate:"required_if=Mode edit"`
	}

	QuestionTypeRequest struct {
		Type course.QuestionType `json:"type" validate:"required,oneof=multiple_choice true_false fill_blank"`
	}

	ReorderRequest struct {
		SourceID      course.ID `json:"source_id" validate:"required"`
		DestinationID course.ID `json:"destination_id" validate:"required"`
	}

	ConfirmResponse struct {
		ID      course.ID   `json:"id"`
		Session editor.View `json:"session"`
	}

	DiffResponse struct {
		Dirty bool   `json:"dirty"`
		Diff  string `json:"diff"`
	}
)

func validateRequest(validate *validator.Validate, req interface{}) error {
	return core.NewFieldsError(validate.Struct(req))
}
