package notify

import (
	"github.com/trezcool/coursebuilder/core"
)

// Console surfaces notifications through the logger.
type Console struct {
	log core.Logger
}

var _ core.Notifier = (*Console)(nil)

func NewConsole(logger core.Logger) *Console {
	return &Console{log: logger}
}

func (c *Console) Notify(n core.Notification) {
	flds := core.Fields{"level": n.Level, "title": n.Title, "time": n.Time}
	switch n.Level {
	case core.LevelError:
		c.log.Warn(n.Title+": "+n.Message, flds)
	default:
		c.log.Info(n.Title+": "+n.Message, flds)
	}
}
