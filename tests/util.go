package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
	"github.com/trezcool/courseportal/storage/database/inmem"
)

// PrepareDB returns an empty in-memory database.
func PrepareDB(t *testing.T) *inmemdb.DB {
	db, err := inmemdb.Open(false /* seed */)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateCourse(
	t *testing.T,
	repo catalog.Repository,
	code string,
	day schedule.Day,
	tm string,
	credits int,
	createdAt ...time.Time,
) catalog.Course {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	course, err := repo.CreateCourse(context.Background(), catalog.Course{
		Name:      code + " course",
		Code:      code,
		Dept:      code[:2],
		Day:       day,
		Time:      tm,
		Credits:   credits,
		Capacity:  catalog.DefaultCapacity,
		Status:    catalog.StatusActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

// Section converts course, failing the test on an invalid slot.
func Section(t *testing.T, course catalog.Course) schedule.CourseSection {
	sec, err := course.Section()
	if err != nil {
		t.Fatalf("Section() failed: %v", err)
	}
	return sec
}
