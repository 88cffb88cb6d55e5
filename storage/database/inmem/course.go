package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
)

type courseRepository struct {
	db *courseTable
}

func NewCourseRepository(db *DB) catalog.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []catalog.Course {
	courses := make([]catalog.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	return courses
}

func (repo *courseRepository) CreateCourse(_ context.Context, course catalog.Course) (catalog.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	course.ID = uuid.New().String()
	repo.db.table[course.ID] = &course
	return course, nil
}

func (repo *courseRepository) QueryCourses(
	_ context.Context,
	filter catalog.QueryFilter,
	orderings ...core.DBOrdering,
) ([]catalog.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	courses := make([]catalog.Course, 0)
	for _, c := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Code), search) {
			continue
		}
		if filter.Dept != "" && c.Dept != filter.Dept {
			continue
		}
		if filter.Day != "" && string(c.Day) != filter.Day {
			continue
		}
		courses = append(courses, c)
	}

	// default: code, then slot
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "code", Ascending: true}, {Field: "day", Ascending: true}}
	}
	sort.SliceStable(courses, func(i, j int) bool {
		for _, ord := range orderings {
			cmp := compareCourses(courses[i], courses[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return courses[i].Time < courses[j].Time
	})
	return courses, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (catalog.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *courseRepository) FindCourseSlot(_ context.Context, code string, day schedule.Day, tm string) (catalog.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.query() {
		if c.Code == code && c.Day == day && c.Time == tm {
			return c, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(_ context.Context, course catalog.Course) (catalog.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[course.ID]
	if !ok {
		return catalog.Course{}, catalog.ErrNotFound
	}
	course.CreatedAt = orig.CreatedAt
	repo.db.table[course.ID] = &course
	return course, nil
}

func (repo *courseRepository) DeleteCourses(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func compareCourses(a, b catalog.Course, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "dept":
		return strings.Compare(a.Dept, b.Dept)
	case "day":
		return dayIndex(a.Day) - dayIndex(b.Day)
	case "credits":
		return a.Credits - b.Credits
	case "capacity":
		return a.Capacity - b.Capacity
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	default: // code
		return strings.Compare(a.Code, b.Code)
	}
}

func dayIndex(d schedule.Day) int {
	for i, day := range schedule.Days {
		if day == d {
			return i
		}
	}
	return len(schedule.Days)
}
