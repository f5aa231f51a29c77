package editor

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/coursebuilder/core/course"
)

// Diff returns a unified diff between the JSON renderings of two trees.
// It is empty when both trees are equal.
func Diff(saved, draft course.Tree) (string, error) {
	a, err := json.MarshalIndent(saved.Clone(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding saved tree")
	}
	b, err := json.MarshalIndent(draft.Clone(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding draft tree")
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a) + "\n"),
		B:        difflib.SplitLines(string(b) + "\n"),
		FromFile: "saved",
		ToFile:   "draft",
		Context:  3,
	})
}
