package course

import (
	"encoding/json"
	"time"
)

// Lesson types
const (
	LessonVideo LessonType = "video"
	LessonAudio LessonType = "audio"
	LessonPDF   LessonType = "pdf"
	LessonQuiz  LessonType = "quiz"
)

var LessonTypes = []LessonType{LessonVideo, LessonAudio, LessonPDF, LessonQuiz}

type LessonType string

func (t LessonType) IsValid() bool {
	for _, lt := range LessonTypes {
		if t == lt {
			return true
		}
	}
	return false
}

type Course struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Modules     []Module  `json:"modules"`
	FetchedAt   time.Time `json:"fetched_at"` // UTC
}

// Module is a named, ordered group of Lessons within a course.
type Module struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	Lessons     []Lesson `json:"lessons"`

	// Quizzes and Assignments are not edited by the builder; they are kept as received.
	Quizzes     json.RawMessage `json:"quizzes,omitempty"`
	Assignments json.RawMessage `json:"assignments,omitempty"`
}

// Lesson is a single unit of content within a Module.
type Lesson struct {
	ID             ID         `json:"id"`
	ModuleID       ID         `json:"module_id"`
	Title          string     `json:"title"`
	Type           LessonType `json:"type"`
	URL            string     `json:"url,omitempty"`
	Description    string     `json:"description,omitempty"`
	Order          int        `json:"order"`
	Duration       *float64   `json:"duration,omitempty"` // minutes
	PrerequisiteID ID         `json:"prerequisite_id,omitempty"`
	Questions      []Question `json:"questions,omitempty"` // quiz lessons only
}

// ModuleData holds the mutable fields of a Module.
type ModuleData struct {
	Title       string
	Description string
}

// LessonData holds the mutable fields of a Lesson.
type LessonData struct {
	Title          string
	Type           LessonType
	URL            string
	Description    string
	Duration       *float64
	PrerequisiteID ID
}

func (l Lesson) Data() LessonData {
	return LessonData{
		Title:          l.Title,
		Type:           l.Type,
		URL:            l.URL,
		Description:    l.Description,
		Duration:       copyFloat(l.Duration),
		PrerequisiteID: l.PrerequisiteID,
	}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
