package course

// Move returns a copy of items with the element at index from moved to index to.
// Elements between the two positions shift by one; the others keep their place.
// Out of range indices leave the copy as is.
func Move[T any](items []T, from, to int) []T {
	out := append([]T(nil), items...)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out
}

// ReorderModules moves the source module to the destination module's position
// and restamps every module order to its 1-based index.
// It is a no-op when source equals destination or either id is unknown.
func (t Tree) ReorderModules(sourceID, destinationID ID) Tree {
	if sourceID == destinationID {
		return t
	}
	_, from, ok := t.FindModule(sourceID)
	if !ok {
		return t
	}
	_, to, ok := t.FindModule(destinationID)
	if !ok {
		return t
	}
	nt := t.Clone()
	nt.Modules = restampModules(Move(nt.Modules, from, to))
	return nt
}

// ReorderLessons moves a lesson within its module.
// Both lessons must belong to moduleID; dragging across modules is a no-op.
func (t Tree) ReorderLessons(moduleID, sourceID, destinationID ID) Tree {
	if sourceID == destinationID {
		return t
	}
	mod, mi, ok := t.FindModule(moduleID)
	if !ok {
		return t
	}
	from := lessonIndex(mod.Lessons, sourceID)
	to := lessonIndex(mod.Lessons, destinationID)
	if from < 0 || to < 0 {
		return t
	}
	nt := t.Clone()
	nt.Modules[mi].Lessons = restampLessons(Move(nt.Modules[mi].Lessons, from, to))
	return nt
}

func restampModules(modules []Module) []Module {
	for i := range modules {
		modules[i].Order = i + 1
	}
	return modules
}

func restampLessons(lessons []Lesson) []Lesson {
	for i := range lessons {
		lessons[i].Order = i + 1
	}
	return lessons
}
