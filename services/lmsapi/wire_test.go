package lmsapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursebuilder/core/course"
)

func TestEncodeCourse(t *testing.T) {
	dur := 3.5
	crs := course.Course{
		ID:    "42",
		Title: "Go 101",
		Modules: []course.Module{{
			ID: "7", Title: "Basics", Order: 1,
			Lessons: []course.Lesson{{ID: "70", ModuleID: "7", Title: "Intro", Type: course.LessonVideo, Order: 1, Duration: &dur}},
		}},
	}

	b, err := EncodeCourse(crs)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, float64(42), raw["id"])
	mod := raw["modules"].([]interface{})[0].(map[string]interface{})
	assert.Nil(t, mod["lessons"])
	lsn := mod["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(7), lsn["moduleId"])
	assert.Equal(t, 3.5, lsn["duration"])

	// what the client reads back
	var dto courseDTO
	require.NoError(t, json.Unmarshal(b, &dto))
	assert.Equal(t, crs.Modules, dto.toCourse().Modules)
}

func TestDecodeModules(t *testing.T) {
	body := []byte(`{"modules": [
		{"id": "tmp-1", "title": "New", "description": "d", "order": 1, "lessons": [
			{"id": 70, "moduleId": 7, "title": "Moved", "type": "quiz", "order": 1, "prerequisiteId": 69,
			 "questions": [{"id": "tmp-2", "question": "Q", "type": "fill_blank", "correctAnswer": "go", "points": 2}]}
		]}
	]}`)

	modules, err := DecodeModules(body)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, course.ID("tmp-1"), modules[0].ID)

	lsn := modules[0].Lessons[0]
	assert.Equal(t, course.ID("70"), lsn.ID)
	assert.Equal(t, course.ID("tmp-1"), lsn.ModuleID)
	assert.Equal(t, course.ID("69"), lsn.PrerequisiteID)
	assert.Equal(t, []course.Question{{ID: "tmp-2", Text: "Q", Type: course.FillBlank, CorrectAnswer: "go", Points: 2}}, lsn.Questions)

	_, err = DecodeModules([]byte(`{"modules": {}}`))
	assert.Error(t, err)
}
