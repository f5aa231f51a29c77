package inmemdb

import (
	"sort"
	"strconv"
	"time"

	"github.com/trezcool/coursebuilder/core/course"
)

type CourseRepository struct {
	db *courseTable
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db.course}
}

// nextID must be called with the write lock held.
func (repo *CourseRepository) nextID() course.ID {
	repo.db.lastPK++
	return course.ID(strconv.Itoa(repo.db.lastPK))
}

func (repo *CourseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = repo.nextID()
	crs.Modules = repo.assignIDs(crs.Modules)
	repo.db.table[crs.ID] = &crs
	return repo.copy(crs), nil
}

func (repo *CourseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, repo.copy(*crs))
	}
	sort.Slice(courses, func(i, j int) bool {
		a, _ := strconv.Atoi(courses[i].ID.String())
		b, _ := strconv.Atoi(courses[j].ID.String())
		return a < b
	})
	return courses, nil
}

func (repo *CourseRepository) GetCourseByID(id course.ID) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return repo.copy(*crs), nil
	}
	return course.Course{}, course.ErrCourseNotFound
}

// SaveModules replaces the course modules. Temporary (or missing) ids are replaced by new ones;
// every lesson is attached to the module holding it.
func (repo *CourseRepository) SaveModules(id course.ID, modules []course.Module) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs, ok := repo.db.table[id]
	if !ok {
		return course.Course{}, course.ErrCourseNotFound
	}
	crs.Modules = repo.assignIDs(modules)
	crs.FetchedAt = time.Now().UTC()
	return repo.copy(*crs), nil
}

func (repo *CourseRepository) DeleteCoursesByID(ids ...course.ID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *CourseRepository) assignIDs(modules []course.Module) []course.Module {
	modules = course.NewTree(modules).Modules
	isNew := func(id course.ID) bool { return id == "" || id.IsTemp() }

	for i := range modules {
		mod := &modules[i]
		if isNew(mod.ID) {
			mod.ID = repo.nextID()
		}
		for j := range mod.Lessons {
			lsn := &mod.Lessons[j]
			if isNew(lsn.ID) {
				lsn.ID = repo.nextID()
			}
			lsn.ModuleID = mod.ID
			for k := range lsn.Questions {
				if isNew(lsn.Questions[k].ID) {
					lsn.Questions[k].ID = repo.nextID()
				}
			}
		}
	}
	return modules
}

func (repo *CourseRepository) copy(crs course.Course) course.Course {
	crs.Modules = course.NewTree(crs.Modules).Modules
	return crs
}
