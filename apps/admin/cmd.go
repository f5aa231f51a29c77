package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
)

var (
	// mockable
	isTerminalFunc = term.IsTerminal
	confirmFunc    = readConfirmation

	errHelp           = errors.New("help provided")
	errAborted        = errors.New("aborted, nothing was saved")
	errNotInteractive = errors.New("stdin is not a terminal; pass -yes to save without confirmation")
)

type commandLine struct {
	opts editor.Options
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  outline -course ID                                            - print the course structure")
	fmt.Fprintln(cli.out, "  reorder-modules -course ID -source ID -destination ID         - move a module to another's position")
	fmt.Fprintln(cli.out, "  reorder-lessons -course ID -source ID -destination ID         - move a lesson within its module")
	fmt.Fprintln(cli.out, "  delete-module -course ID -module ID                           - delete a module and its lessons")
	fmt.Fprintln(cli.out, "  delete-lesson -course ID -lesson ID                           - delete a lesson")
	fmt.Fprintln(cli.out, "  upload -course ID LESSON_ID=PATH...                           - upload lesson media files")
	fmt.Fprintln(cli.out, "Editing commands print the changes and ask for confirmation before saving (-yes to skip).")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
	fs.SetOutput(cli.out)
	courseID := fs.String("course", "", "The course id.")
	yes := fs.Bool("yes", false, "Save without asking for confirmation.")

	var source, destination, moduleID, lessonID *string
	switch args[1] {
	case "outline", "upload":
	case "reorder-modules", "reorder-lessons":
		source = fs.String("source", "", "The id of the item to move.")
		destination = fs.String("destination", "", "The id of the item whose position it takes.")
	case "delete-module":
		moduleID = fs.String("module", "", "The module id.")
	case "delete-lesson":
		lessonID = fs.String("lesson", "", "The lesson id.")
	default:
		cli.printUsage()
		return errHelp
	}

	if err := fs.Parse(args[2:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if *courseID == "" {
		fs.Usage()
		return errHelp
	}

	ctx := context.Background()
	switch args[1] {
	case "outline":
		return cli.outline(ctx, course.ID(*courseID))
	case "reorder-modules", "reorder-lessons":
		if *source == "" || *destination == "" {
			fs.Usage()
			return errHelp
		}
		return cli.edit(ctx, course.ID(*courseID), *yes, func(sess *editor.Session) error {
			return reorder(sess, args[1] == "reorder-modules", course.ID(*source), course.ID(*destination))
		})
	case "delete-module":
		if *moduleID == "" {
			fs.Usage()
			return errHelp
		}
		return cli.edit(ctx, course.ID(*courseID), *yes, func(sess *editor.Session) error {
			return deleteModule(sess, course.ID(*moduleID))
		})
	case "delete-lesson":
		if *lessonID == "" {
			fs.Usage()
			return errHelp
		}
		return cli.edit(ctx, course.ID(*courseID), *yes, func(sess *editor.Session) error {
			return deleteLesson(sess, course.ID(*lessonID))
		})
	default: // upload
		files, err := parseUploads(fs.Args())
		if err != nil {
			fs.Usage()
			return err
		}
		return cli.edit(ctx, course.ID(*courseID), *yes, func(sess *editor.Session) error {
			return cli.upload(ctx, sess, files)
		})
	}
}

func (cli *commandLine) open(ctx context.Context, courseID course.ID) (*editor.Session, error) {
	sess, err := editor.NewSession(courseID, cli.opts)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx); err != nil {
		return nil, errors.Wrap(err, "loading course")
	}
	return sess, nil
}

// edit applies change to a fresh session, shows the resulting diff and saves it once confirmed.
func (cli *commandLine) edit(ctx context.Context, courseID course.ID, yes bool, change func(*editor.Session) error) error {
	sess, err := cli.open(ctx, courseID)
	if err != nil {
		return err
	}
	if err := change(sess); err != nil {
		return err
	}

	diff, err := sess.Diff()
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(cli.out, "No changes.")
		return nil
	}
	fmt.Fprint(cli.out, diff)

	if !yes {
		if !isTerminalFunc(int(os.Stdin.Fd())) {
			return errNotInteractive
		}
		ok, err := confirmFunc(cli.out, os.Stdin, "Save these changes?")
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	if err := sess.Save(ctx); err != nil {
		return err
	}
	for _, n := range sess.Notifications() {
		fmt.Fprintf(cli.out, "%s: %s\n", n.Title, n.Message)
	}
	return nil
}

func readConfirmation(out io.Writer, in io.Reader, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
