package inmemdb

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/registration"
)

type (
	DB struct {
		course *courseTable
		cart   *cartTable
	}

	courseTable struct {
		mutex sync.RWMutex
		table map[string]*catalog.Course
	}

	cartTable struct {
		mutex sync.RWMutex
		table map[string]*registration.Cart // {studentID: cart}
	}
)

// Open creates an empty DB, optionally filled with catalog.SeedCourses.
func Open(seed bool) (*DB, error) {
	db := &DB{
		course: &courseTable{table: make(map[string]*catalog.Course)},
		cart:   &cartTable{table: make(map[string]*registration.Cart)},
	}
	if seed {
		if err := db.seed(); err != nil {
			return nil, errors.Wrap(err, "seeding catalog")
		}
	}
	return db, nil
}

func (db *DB) seed() error {
	ctx := context.Background()
	svc := catalog.NewService(NewCourseRepository(db))
	for _, nc := range catalog.SeedCourses() {
		nc := nc
		if err := nc.Validate(ctx, svc); err != nil {
			return errors.Wrapf(err, "validating %s", nc.Code)
		}
		if _, err := svc.Create(ctx, nc); err != nil {
			return errors.Wrapf(err, "creating %s", nc.Code)
		}
	}
	return nil
}

// Close is a no-op; it lets DB stand in wherever a closable store is expected.
func (db *DB) Close() error { return nil }
