package inmemdb

import (
	"sync"

	"github.com/trezcool/coursebuilder/core/course"
)

type (
	DB struct {
		course *courseTable
		media  *mediaTable
	}

	courseTable struct {
		sync.RWMutex
		table  map[course.ID]*course.Course
		lastPK int
	}

	mediaTable struct {
		sync.RWMutex
		table map[string]*Media
	}
)

func Open() (*DB, error) {
	db := &DB{
		course: &courseTable{table: make(map[course.ID]*course.Course)},
		media:  &mediaTable{table: make(map[string]*Media)},
	}
	return db, nil
}
