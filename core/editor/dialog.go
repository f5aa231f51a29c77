package editor

import (
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core/course"
)

// Dialog modes
const (
	Closed Mode = iota
	Create
	Edit
)

// Dialog kinds
const (
	KindModule   Kind = "module"
	KindLesson   Kind = "lesson"
	KindQuestion Kind = "question"
)

type (
	Mode int
	Kind string
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Edit:
		return "edit"
	}
	return "closed"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "create":
		*m = Create
	case "edit":
		*m = Edit
	case "closed", "":
		*m = Closed
	default:
		return errors.Errorf("invalid dialog mode %q", text)
	}
	return nil
}

func (k Kind) IsValid() bool {
	return k == KindModule || k == KindLesson || k == KindQuestion
}

// Dialog is the create/edit state machine of a modal form for one entity kind.
// The form is initialised once, when the dialog opens.
type Dialog[F any] struct {
	mode       Mode
	target     course.ID
	form       F
	generation uint64
}

func (d *Dialog[F]) Mode() Mode { return d.mode }
func (d *Dialog[F]) Target() course.ID { return d.target }
func (d *Dialog[F]) Form() F { return d.form }
func (d *Dialog[F]) Generation() uint64 { return d.generation }
func (d *Dialog[F]) IsOpen() bool { return d.mode != Closed }
func (d *Dialog[F]) isGeneration(g uint64) bool { return d.IsOpen() && d.generation == g }

func (d *Dialog[F]) openCreate(form F) {
	d.mode = Create
	d.target = ""
	d.form = form
	d.generation++
}

func (d *Dialog[F]) openEdit(id course.ID, form F) {
	d.mode = Edit
	d.target = id
	d.form = form
	d.generation++
}

func (d *Dialog[F]) close() {
	var zero F
	d.mode = Closed
	d.target = ""
	d.form = zero
}

// LessonDialog adds or edits a lesson of Module.
type LessonDialog struct {
	Dialog[course.LessonForm]
	module course.ID
}

func (d *LessonDialog) Module() course.ID { return d.module }

func (d *LessonDialog) close() {
	d.Dialog.close()
	d.module = ""
}

// QuestionDialog adds or edits a question of a quiz lesson.
//
// prevType is the question type as of the dialog opening, then as of the last type change.
// Answers are only reset when the type really changes, never on the initial pre-fill.
type QuestionDialog struct {
	Dialog[course.QuestionForm]
	lesson   course.ID
	prevType course.QuestionType
}

func (d *QuestionDialog) Lesson() course.ID { return d.lesson }

func (d *QuestionDialog) openCreate(lessonID course.ID, form course.QuestionForm) {
	d.Dialog.openCreate(form)
	d.lesson = lessonID
	d.prevType = form.Type
}

func (d *QuestionDialog) openEdit(lessonID, questionID course.ID, form course.QuestionForm) {
	d.Dialog.openEdit(questionID, form)
	d.lesson = lessonID
	d.prevType = form.Type
}

// setType changes the form question type, dropping options and answer if t differs from the previous type.
func (d *QuestionDialog) setType(t course.QuestionType) {
	d.form.Type = t
	if t != d.prevType {
		d.form.ResetAnswers()
	}
	d.prevType = t
}

func (d *QuestionDialog) close() {
	d.Dialog.close()
	d.lesson = ""
	d.prevType = ""
}

// DialogView is the serializable state of a dialog.
type DialogView struct {
	Kind       Kind        `json:"kind"`
	Mode       Mode        `json:"mode"`
	TargetID   course.ID   `json:"target_id,omitempty"`
	ParentID   course.ID   `json:"parent_id,omitempty"`
	Generation uint64      `json:"generation"`
	Form       interface{} `json:"form,omitempty"`
}

func viewDialog[F any](kind Kind, d *Dialog[F], parentID course.ID) DialogView {
	dv := DialogView{Kind: kind, Mode: d.mode, TargetID: d.target, ParentID: parentID, Generation: d.generation}
	if d.IsOpen() {
		dv.Form = d.form
	}
	return dv
}
