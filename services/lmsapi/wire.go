package lmsapi

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core/course"
)

// Wire shapes of the LMS REST API. Lessons travel under "content" when fetched
// and under "lessons" when saved.
type (
	courseDTO struct {
		ID          wireID      `json:"id"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Modules     []moduleDTO `json:"modules"`
	}

	moduleDTO struct {
		ID          wireID          `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Order       int             `json:"order"`
		Content     []lessonDTO     `json:"content,omitempty"`
		Lessons     []lessonDTO     `json:"lessons"`
		Quizzes     json.RawMessage `json:"quizzes,omitempty"`
		Assignments json.RawMessage `json:"assignments,omitempty"`
	}

	lessonDTO struct {
		ID             wireID        `json:"id"`
		ModuleID       wireID        `json:"moduleId,omitempty"`
		Title          string        `json:"title"`
		Type           string        `json:"type"`
		URL            string        `json:"url,omitempty"`
		Description    string        `json:"description,omitempty"`
		Order          int           `json:"order"`
		Duration       *float64      `json:"duration,omitempty"`
		PrerequisiteID wireID        `json:"prerequisiteId,omitempty"`
		Questions      []questionDTO `json:"questions,omitempty"`
	}

	questionDTO struct {
		ID            wireID   `json:"id"`
		Question      string   `json:"question"`
		Type          string   `json:"type"`
		Options       []string `json:"options,omitempty"`
		CorrectAnswer string   `json:"correctAnswer"`
		Points        int      `json:"points"`
	}

	saveModulesRequest struct {
		Modules []moduleDTO `json:"modules"`
	}

	errorResponse struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
)

// wireID is sent back the way the server issued it: numeric ids as JSON numbers,
// anything else (temporary ids included) as strings.
type wireID course.ID

func (id wireID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *wireID) UnmarshalJSON(b []byte) error {
	var cid course.ID
	if err := cid.UnmarshalJSON(b); err != nil {
		return err
	}
	*id = wireID(cid)
	return nil
}

func (dto courseDTO) toCourse() course.Course {
	crs := course.Course{ID: course.ID(dto.ID), Title: dto.Title, Description: dto.Description}
	for _, m := range dto.Modules {
		mod := course.Module{
			ID:          course.ID(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			Quizzes:     m.Quizzes,
			Assignments: m.Assignments,
		}
		lessons := m.Content
		if len(lessons) == 0 {
			lessons = m.Lessons
		}
		for _, l := range lessons {
			lsn := course.Lesson{
				ID:             course.ID(l.ID),
				ModuleID:       mod.ID,
				Title:          l.Title,
				Type:           course.LessonType(l.Type),
				URL:            l.URL,
				Description:    l.Description,
				Order:          l.Order,
				Duration:       l.Duration,
				PrerequisiteID: course.ID(l.PrerequisiteID),
			}
			for _, q := range l.Questions {
				lsn.Questions = append(lsn.Questions, course.Question{
					ID:            course.ID(q.ID),
					Text:          q.Question,
					Type:          course.QuestionType(q.Type),
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Points:        q.Points,
				})
			}
			mod.Lessons = append(mod.Lessons, lsn)
		}
		crs.Modules = append(crs.Modules, mod)
	}
	return crs
}

func newModuleDTO(m course.Module) moduleDTO {
	mod := moduleDTO{
		ID:          wireID(m.ID),
		Title:       m.Title,
		Description: m.Description,
		Order:       m.Order,
		Lessons:     make([]lessonDTO, 0, len(m.Lessons)),
		Quizzes:     m.Quizzes,
		Assignments: m.Assignments,
	}
	for _, l := range m.Lessons {
		lsn := lessonDTO{
			ID:             wireID(l.ID),
			ModuleID:       wireID(m.ID),
			Title:          l.Title,
			Type:           string(l.Type),
			URL:            l.URL,
			Description:    l.Description,
			Order:          l.Order,
			Duration:       l.Duration,
			PrerequisiteID: wireID(l.PrerequisiteID),
		}
		for _, q := range l.Questions {
			lsn.Questions = append(lsn.Questions, questionDTO{
				ID:            wireID(q.ID),
				Question:      q.Text,
				Type:          string(q.Type),
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Points:        q.Points,
			})
		}
		mod.Lessons = append(mod.Lessons, lsn)
	}
	return mod
}

func newSaveModulesRequest(modules []course.Module) saveModulesRequest {
	req := saveModulesRequest{Modules: make([]moduleDTO, 0, len(modules))}
	for _, m := range modules {
		req.Modules = append(req.Modules, newModuleDTO(m))
	}
	return req
}

// EncodeCourse renders crs the way the LMS serves it, lessons under "content".
func EncodeCourse(crs course.Course) ([]byte, error) {
	dto := courseDTO{ID: wireID(crs.ID), Title: crs.Title, Description: crs.Description, Modules: make([]moduleDTO, 0, len(crs.Modules))}
	for _, m := range crs.Modules {
		mod := newModuleDTO(m)
		mod.Content, mod.Lessons = mod.Lessons, nil
		dto.Modules = append(dto.Modules, mod)
	}
	return json.Marshal(dto)
}

// DecodeModules parses the body of a save modules request.
func DecodeModules(b []byte) ([]course.Module, error) {
	var req saveModulesRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, errors.Wrap(err, "decoding modules")
	}
	return courseDTO{Modules: req.Modules}.toCourse().Modules, nil
}
