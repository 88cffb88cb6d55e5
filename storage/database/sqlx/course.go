package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
)

// columns allowed in ORDER BY
var orderColumns = map[string]string{
	"code":       "code",
	"name":       "name",
	"dept":       "dept",
	"day":        "day_index",
	"credits":    "credits",
	"capacity":   "capacity",
	"created_at": "created_at",
}

type courseRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Code       string    `db:"code"`
	Dept       string    `db:"dept"`
	Day        string    `db:"day"`
	DayIndex   int       `db:"day_index"`
	Time       string    `db:"time"`
	Credits    int       `db:"credits"`
	Capacity   int       `db:"capacity"`
	Status     string    `db:"status"`
	Instructor string    `db:"instructor"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func newCourseRow(c catalog.Course) courseRow {
	idx := 0
	for i, d := range schedule.Days {
		if d == c.Day {
			idx = i
		}
	}
	return courseRow{
		ID:         c.ID,
		Name:       c.Name,
		Code:       c.Code,
		Dept:       c.Dept,
		Day:        string(c.Day),
		DayIndex:   idx,
		Time:       c.Time,
		Credits:    c.Credits,
		Capacity:   c.Capacity,
		Status:     string(c.Status),
		Instructor: c.Instructor,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r courseRow) course() catalog.Course {
	return catalog.Course{
		ID:         r.ID,
		Name:       r.Name,
		Code:       r.Code,
		Dept:       r.Dept,
		Day:        schedule.Day(r.Day),
		Time:       r.Time,
		Credits:    r.Credits,
		Capacity:   r.Capacity,
		Status:     catalog.Status(r.Status),
		Instructor: r.Instructor,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) catalog.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, course catalog.Course) (catalog.Course, error) {
	course.ID = uuid.New().String()
	q := `INSERT INTO course (id, name, code, dept, day, day_index, time, credits, capacity, status, instructor,
		created_at, updated_at)
		VALUES (:id, :name, :code, :dept, :day, :day_index, :time, :credits, :capacity, :status, :instructor,
		:created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newCourseRow(course)); err != nil {
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

// buildQuery returns the SELECT for filter & orderings with its positional args.
func buildQuery(filter catalog.QueryFilter, orderings []core.DBOrdering) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)")
		args = append(args, args[len(args)-1])
	}
	if filter.Dept != "" {
		where = append(where, "dept = ?")
		args = append(args, filter.Dept)
	}
	if filter.Day != "" {
		where = append(where, "day = ?")
		args = append(args, filter.Day)
	}

	q := "SELECT * FROM course"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	order := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		if col, ok := orderColumns[ord.Field]; ok {
			order = append(order, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(order) == 0 {
		order = append(order, "code ASC", "day_index ASC")
	}
	order = append(order, "time ASC")
	q += " ORDER BY " + strings.Join(order, ", ")

	return sqlx.Rebind(sqlx.DOLLAR, q), args
}

func (repo *courseRepository) QueryCourses(
	ctx context.Context,
	filter catalog.QueryFilter,
	orderings ...core.DBOrdering,
) ([]catalog.Course, error) {
	q, args := buildQuery(filter, orderings)
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	courses := make([]catalog.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.course())
	}
	return courses, nil
}

func (repo *courseRepository) getOne(ctx context.Context, q string, args ...interface{}) (catalog.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Course{}, catalog.ErrNotFound
		}
		return catalog.Course{}, errors.Wrap(err, "selecting course")
	}
	return row.course(), nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.Course{}, catalog.ErrNotFound
	}
	return repo.getOne(ctx, `SELECT * FROM course WHERE id = $1`, id)
}

func (repo *courseRepository) FindCourseSlot(ctx context.Context, code string, day schedule.Day, tm string) (catalog.Course, error) {
	return repo.getOne(ctx, `SELECT * FROM course WHERE code = $1 AND day = $2 AND time = $3`, code, string(day), tm)
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, course catalog.Course) (catalog.Course, error) {
	orig, err := repo.GetCourse(ctx, course.ID)
	if err != nil {
		return catalog.Course{}, err
	}
	course.CreatedAt = orig.CreatedAt

	q := `UPDATE course SET name = :name, code = :code, dept = :dept, day = :day, day_index = :day_index,
		time = :time, credits = :credits, capacity = :capacity, status = :status, instructor = :instructor,
		updated_at = :updated_at WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, newCourseRow(course)); err != nil {
		return catalog.Course{}, errors.Wrap(err, "updating course")
	}
	return course, nil
}

func (repo *courseRepository) DeleteCourses(ctx context.Context, ids ...string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, valid)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}
