package sqlxrepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
)

func Test_buildQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    catalog.QueryFilter
		orderings []core.DBOrdering
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no filter",
			wantQuery: "SELECT * FROM course ORDER BY code ASC, day_index ASC, time ASC",
		},
		{
			name:      "search",
			filter:    catalog.QueryFilter{Search: "Data"},
			wantQuery: "SELECT * FROM course WHERE (LOWER(name) LIKE $1 OR LOWER(code) LIKE $2) ORDER BY code ASC, day_index ASC, time ASC",
			wantArgs:  []interface{}{"%data%", "%data%"},
		},
		{
			name:   "all filters & orderings",
			filter: catalog.QueryFilter{Search: "cs", Dept: "CSE", Day: "Mon"},
			orderings: []core.DBOrdering{
				{Field: "day", Ascending: true},
				{Field: "credits"},
				{Field: "password"}, // ignored
			},
			wantQuery: "SELECT * FROM course WHERE (LOWER(name) LIKE $1 OR LOWER(code) LIKE $2) AND dept = $3 AND day = $4 " +
				"ORDER BY day_index ASC, credits DESC, time ASC",
			wantArgs: []interface{}{"%cs%", "%cs%", "CSE", "Mon"},
		},
		{
			name:      "by capacity",
			orderings: []core.DBOrdering{{Field: "capacity"}},
			wantQuery: "SELECT * FROM course ORDER BY capacity DESC, time ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildQuery(tt.filter, tt.orderings)
			assert.Equal(t, tt.wantQuery, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_courseRow(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	course := catalog.Course{
		ID:        "c1",
		Name:      "Database Management Systems",
		Code:      "CS301",
		Dept:      "CSE",
		Day:       schedule.Thu,
		Time:      "09:00-10:30",
		Credits:   4,
		Capacity:  50,
		Status:    catalog.StatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	row := newCourseRow(course)
	assert.Equal(t, 3, row.DayIndex)
	assert.Equal(t, 50, row.Capacity)
	assert.Equal(t, "inactive", row.Status)
	assert.Equal(t, course, row.course())
}

func TestDSN(t *testing.T) {
	dsn := DSN(core.DatabaseConfig{
		Host:       "db",
		Port:       "5432",
		Name:       "courseportal",
		User:       "app",
		Password:   "s3cret",
		DisableTLS: true,
	})
	assert.Equal(t, "postgres://app:s3cret@db:5432/courseportal?sslmode=disable&timezone=utc", dsn)
}

func TestAdminConfig(t *testing.T) {
	conf := core.DatabaseConfig{Host: "db", Port: "5432", Name: "courseportal", User: "app", Password: "s3cret"}

	assert.Equal(t, conf, AdminConfig(conf))

	conf.AdminUser, conf.AdminPassword = "owner", "t0p"
	admin := AdminConfig(conf)
	assert.Equal(t, "owner", admin.User)
	assert.Equal(t, "t0p", admin.Password)
	assert.Equal(t, "app", conf.User)
	assert.Contains(t, DSN(admin), "postgres://owner:t0p@db:5432/courseportal")
}
