package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/coursebuilder/apps/lmsstub/stub"
	"github.com/trezcool/coursebuilder/core"
	logsvc "github.com/trezcool/coursebuilder/services/logger"
	inmemdb "github.com/trezcool/coursebuilder/storage/database/inmem"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "LMS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	courses := inmemdb.NewCourseRepository(db)
	crs, err := stub.Seed(courses)
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
	}
	logger.Info(fmt.Sprintf("demo course %q seeded with id %s", crs.Title, crs.ID))

	server := stub.NewServer(stub.Deps{
		Conf:    conf,
		Logger:  logger,
		Courses: courses,
		Media:   inmemdb.NewMediaRepository(db),
	})
	if err := server.Start(); err != nil {
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)
	}
}
