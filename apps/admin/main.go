package main

import (
	"log"
	"os"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
	"github.com/trezcool/coursebuilder/services/lmsapi"
	logsvc "github.com/trezcool/coursebuilder/services/logger"
	"github.com/trezcool/coursebuilder/services/notify"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// start CLI
	cli := commandLine{
		opts: editor.Options{
			Backend:  lmsapi.NewClient(conf.Backend),
			Notifier: notify.NewConsole(logger),
			Logger:   logger,
			Limits:   course.NewUploadLimits(conf.Upload),
		},
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		logger.Close()
		os.Exit(1)
	}
}
