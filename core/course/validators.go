package course

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursebuilder/core"
)

var (
	validate = registerValidators(core.Validator())

	lessonTypeTag  = "lessontype"
	lessonTypeText = "must be one of video, audio, pdf or quiz"

	urlModeTag  = "urlmode"
	urlModeText = "must be one of upload or manual"

	questionTypeTag  = "questiontype"
	questionTypeText = "must be one of multiple_choice, true_false or fill_blank"

	minOptionsTag  = "minoptions"
	minOptionsText = "at least 2 non-blank options are required"

	answerOptionTag  = "answeroption"
	answerOptionText = "the correct answer must match one of the options"

	trueFalseTag  = "truefalse"
	trueFalseText = "the correct answer must be True or False"

	prerequisiteTag  = "prerequisite"
	prerequisiteText = "the prerequisite must be another saved lesson of this course"

	// reused for struct level checks
	notBlankTag = "notblank"
	urlTag      = "url"
)

func registerValidators(v *validator.Validate) *validator.Validate {

	_ = v.RegisterValidation(lessonTypeTag, lessonTypeValidation)
	core.RegisterCustomTranslation(v, core.Translator, lessonTypeTag, lessonTypeText)
	_ = v.RegisterValidation(urlModeTag, urlModeValidation)
	core.RegisterCustomTranslation(v, core.Translator, urlModeTag, urlModeText)
	_ = v.RegisterValidation(questionTypeTag, questionTypeValidation)
	core.RegisterCustomTranslation(v, core.Translator, questionTypeTag, questionTypeText)

	v.RegisterStructValidation(lessonStructValidation, LessonForm{})
	v.RegisterStructValidation(questionStructValidation, QuestionForm{})
	core.RegisterCustomTranslation(v, core.Translator, minOptionsTag, minOptionsText)
	core.RegisterCustomTranslation(v, core.Translator, answerOptionTag, answerOptionText)
	core.RegisterCustomTranslation(v, core.Translator, trueFalseTag, trueFalseText)
	core.RegisterCustomTranslation(v, core.Translator, prerequisiteTag, prerequisiteText)
	return v
}

// Custom Validators

func lessonTypeValidation(fl validator.FieldLevel) bool {
	return LessonType(fl.Field().String()).IsValid()
}

func urlModeValidation(fl validator.FieldLevel) bool {
	mode := URLMode(fl.Field().String())
	return mode == URLModeUpload || mode == URLModeManual
}

func questionTypeValidation(fl validator.FieldLevel) bool {
	return QuestionType(fl.Field().String()).IsValid()
}

// lessonStructValidation checks that a manually entered url is a valid URL.
func lessonStructValidation(sl validator.StructLevel) {
	lf := sl.Current().Interface().(LessonForm)
	if lf.URLMode != URLModeManual || lf.URL == "" {
		return
	}
	if err := sl.Validator().Var(lf.URL, urlTag); err != nil {
		sl.ReportError(lf.URL, "url", "URL", urlTag, "")
	}
}

// questionStructValidation applies the answer rules of each question type:
// - multiple_choice: at least 2 non-blank options, the answer is exactly one of them
// - true_false: the answer is "True" or "False"
// - fill_blank: the answer is not blank
func questionStructValidation(sl validator.StructLevel) {
	qf := sl.Current().Interface().(QuestionForm)

	switch qf.Type {
	case MultipleChoice:
		opts := nonBlank(qf.Options)
		if len(opts) < 2 {
			sl.ReportError(qf.Options, "options", "Options", minOptionsTag, "")
		}
		for _, opt := range opts {
			if opt == qf.CorrectAnswer {
				return
			}
		}
		sl.ReportError(qf.CorrectAnswer, "correct_answer", "CorrectAnswer", answerOptionTag, "")
	case TrueFalse:
		if qf.CorrectAnswer != AnswerTrue && qf.CorrectAnswer != AnswerFalse {
			sl.ReportError(qf.CorrectAnswer, "correct_answer", "CorrectAnswer", trueFalseTag, "")
		}
	case FillBlank:
		if strings.TrimSpace(qf.CorrectAnswer) == "" {
			sl.ReportError(qf.CorrectAnswer, "correct_answer", "CorrectAnswer", notBlankTag, "")
		}
	}
}

// nonBlank returns the non-blank entries of opts, unchanged.
func nonBlank(opts []string) []string {
	var out []string
	for _, opt := range opts {
		if strings.TrimSpace(opt) != "" {
			out = append(out, opt)
		}
	}
	return out
}
