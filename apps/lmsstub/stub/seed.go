package stub

import (
	"github.com/trezcool/coursebuilder/core/course"
	inmemdb "github.com/trezcool/coursebuilder/storage/database/inmem"
)

// Seed creates a demo course and returns it with its assigned ids.
func Seed(repo *inmemdb.CourseRepository) (course.Course, error) {
	intro := 4.5
	return repo.CreateCourse(course.Course{
		Title:       "Practical Go",
		Description: "Write idiomatic, production ready Go.",
		Modules: []course.Module{
			{
				Title:       "Getting started",
				Description: "Tooling and the language basics",
				Order:       1,
				Lessons: []course.Lesson{
					{Title: "Welcome", Type: course.LessonVideo, Order: 1, URL: "https://cdn.example.com/welcome.mp4", Duration: &intro},
					{Title: "Setting up your workspace", Type: course.LessonPDF, Order: 2},
				},
			},
			{
				Title:       "Concurrency",
				Description: "Goroutines, channels and the sync package",
				Order:       2,
				Lessons: []course.Lesson{
					{Title: "Goroutines", Type: course.LessonAudio, Order: 1},
					{
						Title: "Check your understanding",
						Type:  course.LessonQuiz,
						Order: 2,
						Questions: []course.Question{
							{
								Text:          "Which keyword starts a goroutine?",
								Type:          course.MultipleChoice,
								Options:       []string{"go", "async", "spawn", "thread"},
								CorrectAnswer: "go",
								Points:        1,
							},
							{Text: "Unbuffered channels block the sender until a receiver is ready", Type: course.TrueFalse, CorrectAnswer: course.AnswerTrue, Points: 1},
						},
					},
				},
			},
		},
	})
}
