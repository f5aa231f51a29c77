package course

// Question types
const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
)

const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

var QuestionTypes = []QuestionType{MultipleChoice, TrueFalse, FillBlank}

// multiple choice questions start with this many blank options
const defaultOptionsCount = 4

type QuestionType string

func (t QuestionType) IsValid() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// DefaultOptions returns the blank answer options a question of type t starts with.
func DefaultOptions(t QuestionType) []string {
	if t == MultipleChoice {
		return make([]string, defaultOptionsCount)
	}
	return nil
}

type Question struct {
	ID            ID           `json:"id"`
	Text          string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        int          `json:"points"`
}
