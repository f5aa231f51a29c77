package course

import "reflect"

// Tree is the Draft Tree: the session-local list of Modules (each holding its Lessons).
//
// Tree has value semantics: every transition returns a new Tree and leaves the receiver untouched.
// Operations referencing unknown ids are no-ops.
type Tree struct {
	Modules []Module `json:"modules"`
}

func NewTree(modules []Module) Tree {
	return Tree{Modules: cloneModules(modules)}
}

// Clone returns a deep copy of t. Empty slices are normalized to nil.
func (t Tree) Clone() Tree {
	return Tree{Modules: cloneModules(t.Modules)}
}

// Equal reports whether t and o describe the same structure.
func (t Tree) Equal(o Tree) bool {
	return reflect.DeepEqual(t.Clone(), o.Clone())
}

func (t Tree) Len() int { return len(t.Modules) }

func (t Tree) FindModule(id ID) (Module, int, bool) {
	for i, m := range t.Modules {
		if m.ID == id {
			return m, i, true
		}
	}
	return Module{}, -1, false
}

func (t Tree) FindLesson(id ID) (Lesson, bool) {
	for _, m := range t.Modules {
		if i := lessonIndex(m.Lessons, id); i >= 0 {
			return m.Lessons[i], true
		}
	}
	return Lesson{}, false
}

// ModuleOf returns the Module currently holding the lesson.
func (t Tree) ModuleOf(lessonID ID) (Module, bool) {
	for _, m := range t.Modules {
		if lessonIndex(m.Lessons, lessonID) >= 0 {
			return m, true
		}
	}
	return Module{}, false
}

// AddModule appends a new Module with a temporary id and order = len(modules) + 1.
func (t Tree) AddModule(title, description string) (Tree, ID) {
	nt := t.Clone()
	mod := Module{
		ID:          NewTempID(),
		Title:       title,
		Description: description,
		Order:       len(nt.Modules) + 1,
	}
	nt.Modules = append(nt.Modules, mod)
	return nt, mod.ID
}

func (t Tree) UpdateModule(id ID, data ModuleData) Tree {
	_, i, ok := t.FindModule(id)
	if !ok {
		return t
	}
	nt := t.Clone()
	nt.Modules[i].Title = data.Title
	nt.Modules[i].Description = data.Description
	return nt
}

// DeleteModule removes the Module and its Lessons.
// Remaining modules keep their order values (gaps are left as is).
func (t Tree) DeleteModule(id ID) Tree {
	_, i, ok := t.FindModule(id)
	if !ok {
		return t
	}
	nt := t.Clone()
	nt.Modules = append(nt.Modules[:i], nt.Modules[i+1:]...)
	return nt.normalize()
}

// AddLesson appends a Lesson to the Module with order = len(lessons) + 1.
func (t Tree) AddLesson(moduleID ID, data LessonData) (Tree, ID) {
	_, i, ok := t.FindModule(moduleID)
	if !ok {
		return t, ""
	}
	nt := t.Clone()
	mod := &nt.Modules[i]
	lsn := Lesson{ID: NewTempID(), ModuleID: mod.ID, Order: len(mod.Lessons) + 1}
	lsn.apply(data)
	mod.Lessons = append(mod.Lessons, lsn)
	return nt, lsn.ID
}

// UpdateLesson replaces the Lesson's mutable fields, preserving its id, module and order.
func (t Tree) UpdateLesson(moduleID, lessonID ID, data LessonData) Tree {
	mi, li := t.lessonPos(moduleID, lessonID)
	if li < 0 {
		return t
	}
	nt := t.Clone()
	nt.Modules[mi].Lessons[li].apply(data)
	return nt
}

// DeleteLesson removes the Lesson from whichever Module holds it
// and renumbers the remaining lessons of that module.
func (t Tree) DeleteLesson(lessonID ID) Tree {
	for mi, m := range t.Modules {
		li := lessonIndex(m.Lessons, lessonID)
		if li < 0 {
			continue
		}
		nt := t.Clone()
		mod := &nt.Modules[mi]
		mod.Lessons = restampLessons(append(mod.Lessons[:li], mod.Lessons[li+1:]...))
		return nt.normalize()
	}
	return t
}

// SetLessonMedia merges an upload result into the Lesson.
// duration is only overwritten when known.
func (t Tree) SetLessonMedia(lessonID ID, url string, duration *float64) Tree {
	mod, ok := t.ModuleOf(lessonID)
	if !ok {
		return t
	}
	mi, li := t.lessonPos(mod.ID, lessonID)
	nt := t.Clone()
	lsn := &nt.Modules[mi].Lessons[li]
	lsn.URL = url
	if duration != nil {
		lsn.Duration = copyFloat(duration)
	}
	return nt
}

// Replace swaps the whole structure, e.g. with the canonical one refetched after a save.
func (t Tree) Replace(modules []Module) Tree {
	return NewTree(modules)
}

// PrerequisiteCandidates lists the lessons that lessonID may depend on:
// every saved lesson of the course except itself.
func (t Tree) PrerequisiteCandidates(lessonID ID) []Lesson {
	var lessons []Lesson
	for _, m := range t.Modules {
		for _, l := range m.Lessons {
			if l.ID != lessonID && !l.ID.IsTemp() {
				lessons = append(lessons, l)
			}
		}
	}
	return lessons
}

// AddQuestion appends a question to a quiz lesson.
func (t Tree) AddQuestion(lessonID ID, q Question) (Tree, ID) {
	mi, li := t.quizPos(lessonID)
	if li < 0 {
		return t, ""
	}
	nt := t.Clone()
	q = cloneQuestion(q)
	q.ID = NewTempID()
	lsn := &nt.Modules[mi].Lessons[li]
	lsn.Questions = append(lsn.Questions, q)
	return nt, q.ID
}

func (t Tree) UpdateQuestion(lessonID, questionID ID, q Question) Tree {
	mi, li := t.quizPos(lessonID)
	if li < 0 {
		return t
	}
	qi := questionIndex(t.Modules[mi].Lessons[li].Questions, questionID)
	if qi < 0 {
		return t
	}
	nt := t.Clone()
	q = cloneQuestion(q)
	q.ID = questionID
	nt.Modules[mi].Lessons[li].Questions[qi] = q
	return nt
}

func (t Tree) DeleteQuestion(lessonID, questionID ID) Tree {
	mi, li := t.quizPos(lessonID)
	if li < 0 {
		return t
	}
	qi := questionIndex(t.Modules[mi].Lessons[li].Questions, questionID)
	if qi < 0 {
		return t
	}
	nt := t.Clone()
	lsn := &nt.Modules[mi].Lessons[li]
	lsn.Questions = append(lsn.Questions[:qi], lsn.Questions[qi+1:]...)
	return nt.normalize()
}

func (t Tree) FindQuestion(lessonID, questionID ID) (Question, bool) {
	lsn, ok := t.FindLesson(lessonID)
	if !ok {
		return Question{}, false
	}
	if qi := questionIndex(lsn.Questions, questionID); qi >= 0 {
		return lsn.Questions[qi], true
	}
	return Question{}, false
}

func (t Tree) lessonPos(moduleID, lessonID ID) (int, int) {
	_, mi, ok := t.FindModule(moduleID)
	if !ok {
		return -1, -1
	}
	return mi, lessonIndex(t.Modules[mi].Lessons, lessonID)
}

func (t Tree) quizPos(lessonID ID) (int, int) {
	for mi, m := range t.Modules {
		if li := lessonIndex(m.Lessons, lessonID); li >= 0 {
			if m.Lessons[li].Type != LessonQuiz {
				return -1, -1
			}
			return mi, li
		}
	}
	return -1, -1
}

// normalize turns emptied slices back to nil so that clones compare equal.
func (t Tree) normalize() Tree {
	return t.Clone()
}

func (l *Lesson) apply(data LessonData) {
	l.Title = data.Title
	l.Type = data.Type
	l.URL = data.URL
	l.Description = data.Description
	l.Duration = copyFloat(data.Duration)
	l.PrerequisiteID = data.PrerequisiteID
	if l.Type != LessonQuiz {
		l.Questions = nil
	}
}

func lessonIndex(lessons []Lesson, id ID) int {
	for i, l := range lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func questionIndex(questions []Question, id ID) int {
	for i, q := range questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneModules(modules []Module) []Module {
	if len(modules) == 0 {
		return nil
	}
	out := make([]Module, len(modules))
	for i, m := range modules {
		out[i] = m
		out[i].Lessons = cloneLessons(m.Lessons)
		out[i].Quizzes = cloneRaw(m.Quizzes)
		out[i].Assignments = cloneRaw(m.Assignments)
	}
	return out
}

func cloneLessons(lessons []Lesson) []Lesson {
	if len(lessons) == 0 {
		return nil
	}
	out := make([]Lesson, len(lessons))
	for i, l := range lessons {
		out[i] = l
		out[i].Duration = copyFloat(l.Duration)
		if len(l.Questions) > 0 {
			out[i].Questions = make([]Question, len(l.Questions))
			for j, q := range l.Questions {
				out[i].Questions[j] = cloneQuestion(q)
			}
		} else {
			out[i].Questions = nil
		}
	}
	return out
}

func cloneQuestion(q Question) Question {
	if len(q.Options) > 0 {
		q.Options = append([]string(nil), q.Options...)
	} else {
		q.Options = nil
	}
	return q
}

func cloneRaw(raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	return append([]byte(nil), raw...)
}
