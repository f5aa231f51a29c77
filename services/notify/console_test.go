package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/coursebuilder/core"
)

type logRecorder struct {
	levels, msgs []string
}

func (r *logRecorder) record(level, msg string) {
	r.levels = append(r.levels, level)
	r.msgs = append(r.msgs, msg)
}

func (r *logRecorder) Debug(msg string, _ ...interface{}) { r.record("debug", msg) }
func (r *logRecorder) Info(msg string, _ ...interface{}) { r.record("info", msg) }
func (r *logRecorder) Warn(msg string, _ ...interface{}) { r.record("warn", msg) }
func (r *logRecorder) Error(msg string, _ ...interface{}) { r.record("error", msg) }
func (r *logRecorder) Fatal(msg string, _ ...interface{}) { r.record("fatal", msg) }

func TestConsole_Notify(t *testing.T) {
	rec := new(logRecorder)
	c := NewConsole(rec)

	c.Notify(core.Notification{Level: core.LevelSuccess, Title: "Saved", Message: "2 module(s) saved."})
	c.Notify(core.Notification{Level: core.LevelError, Title: "Upload failed", Message: "invalid file type"})

	assert.Equal(t, []string{"info", "warn"}, rec.levels)
	assert.Equal(t, []string{"Saved: 2 module(s) saved.", "Upload failed: invalid file type"}, rec.msgs)
}
