package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/coursebuilder/core/course"
)

// outline prints the modules and lessons of the course, in order.
func (cli *commandLine) outline(ctx context.Context, courseID course.ID) error {
	sess, err := cli.open(ctx, courseID)
	if err != nil {
		return err
	}
	tree := sess.Tree()

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", courseID, sess.View().Title)
	for _, m := range tree.Modules {
		fmt.Fprintf(w, "%d.\t[%s]\t%s\n", m.Order, m.ID, m.Title)
		for _, l := range m.Lessons {
			fmt.Fprintf(w, "  %d.%d\t[%s]\t%s\t%s%s\n", m.Order, l.Order, l.ID, l.Title, l.Type, lessonExtra(l))
		}
	}
	return w.Flush()
}

func lessonExtra(l course.Lesson) string {
	switch {
	case l.Type == course.LessonQuiz:
		return fmt.Sprintf("\t%d question(s)", len(l.Questions))
	case l.Duration != nil:
		return fmt.Sprintf("\t%.1f min", *l.Duration)
	}
	return ""
}
