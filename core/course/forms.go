package course

import (
	"github.com/trezcool/coursebuilder/core"
)

// Lesson url input modes. A lesson url is either uploaded or typed in, never both.
const (
	URLModeUpload URLMode = "upload"
	URLModeManual URLMode = "manual"
)

type URLMode string

// ModuleForm contains the information needed to create or edit a Module.
type ModuleForm struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

func ModuleFormFrom(m Module) ModuleForm {
	return ModuleForm{Title: m.Title, Description: m.Description}
}

func (mf *ModuleForm) Validate() error {
	mf.Title = core.CleanTitle(mf.Title)
	mf.Description = core.CleanString(mf.Description)
	return core.NewFieldsError(validate.Struct(mf))
}

func (mf ModuleForm) Data() ModuleData {
	return ModuleData{Title: mf.Title, Description: mf.Description}
}

// LessonForm contains the information needed to create or edit a Lesson.
type LessonForm struct {
	Title          string     `json:"title" validate:"required,notblank"`
	Type           LessonType `json:"type" validate:"required,lessontype"`
	URLMode        URLMode    `json:"url_mode" validate:"omitempty,urlmode"`
	URL            string     `json:"url"`
	Description    string     `json:"description"`
	Duration       *float64   `json:"duration" validate:"omitempty,gte=0"`
	PrerequisiteID ID         `json:"prerequisite_id"`
}

func NewLessonForm() LessonForm {
	return LessonForm{Type: LessonVideo, URLMode: URLModeUpload}
}

func LessonFormFrom(l Lesson) LessonForm {
	return LessonForm{
		Title:          l.Title,
		Type:           l.Type,
		URLMode:        URLModeUpload,
		URL:            l.URL,
		Description:    l.Description,
		Duration:       copyFloat(l.Duration),
		PrerequisiteID: l.PrerequisiteID,
	}
}

// SetURLMode switches the url input mode, clearing the url entered in the previous mode.
func (lf *LessonForm) SetURLMode(mode URLMode) {
	if mode != lf.URLMode {
		lf.URL = ""
	}
	lf.URLMode = mode
}

// Validate checks the form against tree. lessonID is the edited lesson ("" on create):
// a lesson cannot depend on itself nor on an unsaved lesson.
func (lf *LessonForm) Validate(tree Tree, lessonID ID) error {
	lf.Title = core.CleanTitle(lf.Title)
	lf.URL = core.CleanString(lf.URL)
	lf.Description = core.CleanString(lf.Description)
	if lf.URLMode == "" {
		lf.URLMode = URLModeUpload
	}

	if err := validate.Struct(lf); err != nil {
		return core.NewFieldsError(err)
	}
	if lf.PrerequisiteID != "" && !isCandidate(tree.PrerequisiteCandidates(lessonID), lf.PrerequisiteID) {
		return core.NewValidationError(nil, core.FieldError{Field: "prerequisite_id", Error: prerequisiteText})
	}
	return nil
}

func (lf LessonForm) Data() LessonData {
	return LessonData{
		Title:          lf.Title,
		Type:           lf.Type,
		URL:            lf.URL,
		Description:    lf.Description,
		Duration:       copyFloat(lf.Duration),
		PrerequisiteID: lf.PrerequisiteID,
	}
}

func isCandidate(lessons []Lesson, id ID) bool {
	for _, l := range lessons {
		if l.ID == id {
			return true
		}
	}
	return false
}

// QuestionForm contains the information needed to create or edit a quiz Question.
type QuestionForm struct {
	Text          string       `json:"question" validate:"required,notblank"`
	Type          QuestionType `json:"type" validate:"required,questiontype"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        int          `json:"points" validate:"gte=0"`
}

func NewQuestionForm() QuestionForm {
	return QuestionForm{Type: MultipleChoice, Options: DefaultOptions(MultipleChoice), Points: 1}
}

func QuestionFormFrom(q Question) QuestionForm {
	return QuestionForm{
		Text:          q.Text,
		Type:          q.Type,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
	}
}

// ResetAnswers drops the options and correct answer, starting over with the defaults of the form type.
func (qf *QuestionForm) ResetAnswers() {
	qf.Options = DefaultOptions(qf.Type)
	qf.CorrectAnswer = ""
}

func (qf *QuestionForm) Validate() error {
	qf.Text = core.CleanString(qf.Text)
	return core.NewFieldsError(validate.Struct(qf))
}

// Question converts the form. Blank multiple choice options are dropped, the others
// are kept as typed since the answer must match one of them exactly.
// Other types carry no options.
func (qf QuestionForm) Question() Question {
	q := Question{
		Text:          qf.Text,
		Type:          qf.Type,
		CorrectAnswer: qf.CorrectAnswer,
		Points:        qf.Points,
	}
	switch qf.Type {
	case MultipleChoice:
		q.Options = nonBlank(qf.Options)
	case FillBlank:
		q.CorrectAnswer = core.CleanString(qf.CorrectAnswer)
	}
	return q
}
