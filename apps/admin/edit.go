package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
)

var (
	errModuleNotFound = errors.New("module not found")
	errOtherModule    = errors.New("lessons can only be reordered within their module")
)

func reorder(sess *editor.Session, modules bool, sourceID, destinationID course.ID) error {
	tree := sess.Tree()
	if modules {
		for _, id := range []course.ID{sourceID, destinationID} {
			if _, _, ok := tree.FindModule(id); !ok {
				return errors.Wrapf(errModuleNotFound, "module %s", id)
			}
		}
		sess.ReorderModules(sourceID, destinationID)
		return nil
	}

	src, ok := tree.ModuleOf(sourceID)
	if !ok {
		return errors.Wrapf(editor.ErrLessonNotFound, "lesson %s", sourceID)
	}
	dst, ok := tree.ModuleOf(destinationID)
	if !ok {
		return errors.Wrapf(editor.ErrLessonNotFound, "lesson %s", destinationID)
	}
	if src.ID != dst.ID {
		return errOtherModule
	}
	sess.ReorderLessons(src.ID, sourceID, destinationID)
	return nil
}

func deleteModule(sess *editor.Session, id course.ID) error {
	if _, _, ok := sess.Tree().FindModule(id); !ok {
		return errors.Wrapf(errModuleNotFound, "module %s", id)
	}
	sess.DeleteModule(id)
	return nil
}

func deleteLesson(sess *editor.Session, id course.ID) error {
	if _, ok := sess.Tree().FindLesson(id); !ok {
		return errors.Wrapf(editor.ErrLessonNotFound, "lesson %s", id)
	}
	sess.DeleteLesson(id)
	return nil
}
