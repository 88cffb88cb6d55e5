package catalog_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
	"github.com/trezcool/courseportal/storage/database/inmem"
	"github.com/trezcool/courseportal/tests"
)

func setup(t *testing.T) (*catalog.Service, catalog.Repository) {
	repo := inmemdb.NewCourseRepository(testutil.PrepareDB(t))
	return catalog.NewService(repo), repo
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	fields := make(map[string]string)
	switch e := err.(type) {
	case validator.ValidationErrors:
		for _, fe := range e {
			fields[fe.Field()] = fe.Translate(core.Translator)
		}
	case *core.ValidationError:
		for _, fe := range e.Fields {
			fields[fe.Field] = fe.Error
		}
	default:
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	return fields
}

func TestNewCourse_Validate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateCourse(t, repo, "CS301", schedule.Mon, "09:00-10:30", 4)

	t.Run("cleans fields", func(t *testing.T) {
		nc := catalog.NewCourse{Name: " Operating Systems ", Code: " cs302", Dept: "cse", Day: "TUE", Time: "10:30-12:00 ", Credits: 4}
		require.NoError(t, nc.Validate(ctx, svc))
		assert.Equal(t, catalog.NewCourse{
			Name: "Operating Systems", Code: "CS302", Dept: "CSE", Day: "Tue", Time: "10:30-12:00", Credits: 4,
			Capacity: catalog.DefaultCapacity, Status: "active",
		}, nc)
	})

	t.Run("capacity & status", func(t *testing.T) {
		nc := catalog.NewCourse{Name: "X", Code: "CS303", Dept: "CSE", Day: "Thu", Time: "14:30-16:00", Credits: 3, Capacity: 45, Status: " Inactive"}
		require.NoError(t, nc.Validate(ctx, svc))
		assert.Equal(t, 45, nc.Capacity)
		assert.Equal(t, "inactive", nc.Status)

		for _, capacity := range []int{5, 201, -1} {
			nc := catalog.NewCourse{Name: "X", Code: "CS303", Dept: "CSE", Day: "Thu", Time: "14:30-16:00", Credits: 3, Capacity: capacity, Status: "archived"}
			err := nc.Validate(ctx, svc)
			require.Error(t, err)
			fields := fieldErrors(t, err)
			assert.Contains(t, fields, "capacity", capacity)
			assert.Equal(t, "status must be active or inactive", fields["status"])
		}
	})

	tests := []struct {
		name       string
		course     catalog.NewCourse
		wantFields map[string]string
	}{
		{
			name:   "required",
			course: catalog.NewCourse{},
			wantFields: map[string]string{
				"name":    "this field is required",
				"code":    "this field is required",
				"dept":    "this field is required",
				"day":     "this field is required",
				"time":    "this field is required",
				"credits": "this field is required",
			},
		},
		{
			name:   "formats",
			course: catalog.NewCourse{Name: "X", Code: "C301", Dept: "CSE", Day: "Sat", Time: "9:00-10:30", Credits: 13},
			wantFields: map[string]string{
				"code": "course codes look like CS301",
				"day":  "day must be one of Mon, Tue, Wed, Thu, Fri",
				"time": "time must be a HH:MM-HH:MM range ending after it starts",
			},
		},
		{
			name:   "ends before it starts",
			course: catalog.NewCourse{Name: "X", Code: "CS302", Dept: "CSE", Day: "Mon", Time: "10:30-09:00", Credits: 3},
			wantFields: map[string]string{
				"time": "time must be a HH:MM-HH:MM range ending after it starts",
			},
		},
		{
			name:   "slot taken",
			course: catalog.NewCourse{Name: "DBMS", Code: "cs301", Dept: "CSE", Day: "mon", Time: "09:00-10:30", Credits: 4},
			wantFields: map[string]string{
				"time": catalog.ErrCodeSlotExists.Error(),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate(ctx, svc)
			require.Error(t, err)
			fields := fieldErrors(t, err)
			for fld, msg := range tt.wantFields {
				assert.Equal(t, msg, fields[fld], fld)
			}
		})
	}
}

func TestUpdateCourse_Validate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	dbms := testutil.CreateCourse(t, repo, "CS301", schedule.Mon, "09:00-10:30", 4)
	testutil.CreateCourse(t, repo, "CS301", schedule.Thu, "09:00-10:30", 4)

	t.Run("defaults to current values", func(t *testing.T) {
		uc := catalog.UpdateCourse{Credits: 5}
		require.NoError(t, uc.Validate(ctx, dbms, svc))
		assert.Equal(t, dbms.Code, uc.Code)
		assert.Equal(t, string(dbms.Day), uc.Day)
		assert.Equal(t, dbms.Time, uc.Time)
		assert.Equal(t, 5, uc.Credits)
		assert.Equal(t, dbms.Capacity, uc.Capacity)
		assert.Equal(t, string(dbms.Status), uc.Status)
	})

	t.Run("deactivate", func(t *testing.T) {
		uc := catalog.UpdateCourse{Status: "INACTIVE", Capacity: 120}
		require.NoError(t, uc.Validate(ctx, dbms, svc))
		assert.Equal(t, "inactive", uc.Status)
		assert.Equal(t, 120, uc.Capacity)
	})

	t.Run("invalid capacity", func(t *testing.T) {
		uc := catalog.UpdateCourse{Capacity: 500}
		err := uc.Validate(ctx, dbms, svc)
		require.Error(t, err)
		assert.Contains(t, fieldErrors(t, err), "capacity")
	})

	t.Run("moving onto another section's slot", func(t *testing.T) {
		uc := catalog.UpdateCourse{Day: "thu"}
		err := uc.Validate(ctx, dbms, svc)
		require.Error(t, err)
		assert.Equal(t, map[string]string{"time": catalog.ErrCodeSlotExists.Error()}, fieldErrors(t, err))
	})

	t.Run("invalid time", func(t *testing.T) {
		uc := catalog.UpdateCourse{Time: "noon"}
		assert.Error(t, uc.Validate(ctx, dbms, svc))
	})
}

func TestService(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	dbms := testutil.CreateCourse(t, repo, "CS301", schedule.Mon, "09:00-10:30", 4)
	stats := testutil.CreateCourse(t, repo, "MA201", schedule.Mon, "13:00-14:30", 3)
	broken := testutil.CreateCourse(t, repo, "HS301", schedule.Thu, "late", 2)

	t.Run("Section", func(t *testing.T) {
		sec, err := svc.Section(ctx, dbms.ID)
		require.NoError(t, err)
		assert.Equal(t, schedule.CourseSection{
			ID: dbms.ID, Code: "CS301", Day: schedule.Mon, StartMinute: 540, EndMinute: 630, Credits: 4,
		}, sec)

		_, err = svc.Section(ctx, "nope")
		assert.Equal(t, catalog.ErrNotFound, err)

		_, err = svc.Section(ctx, broken.ID)
		assert.Error(t, err)
	})

	t.Run("Seats", func(t *testing.T) {
		capacity, active, err := svc.Seats(ctx, dbms.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultCapacity, capacity)
		assert.True(t, active)

		_, _, err = svc.Seats(ctx, "nope")
		assert.Equal(t, catalog.ErrNotFound, err)
	})

	t.Run("Sections skips unparsable slots", func(t *testing.T) {
		secs, err := svc.Sections(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(secs))
		for _, s := range secs {
			ids = append(ids, s.ID)
		}
		assert.ElementsMatch(t, []string{dbms.ID, stats.ID}, ids)
	})

	t.Run("Departments", func(t *testing.T) {
		depts, err := svc.Departments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CS", "HS", "MA"}, depts)
	})

	t.Run("Create & Update & Delete", func(t *testing.T) {
		nc := catalog.NewCourse{
			Name: "Operating Systems", Code: "CS302", Dept: "CSE", Day: "Tue", Time: "10:30-12:00", Credits: 4,
			Capacity: 50, Status: "active",
		}
		course, err := svc.Create(ctx, nc)
		require.NoError(t, err)
		assert.NotEmpty(t, course.ID)
		assert.False(t, course.CreatedAt.IsZero())
		assert.Equal(t, 50, course.Capacity)
		assert.True(t, course.IsActive())

		updated, err := svc.Update(ctx, course.ID, catalog.UpdateCourse{
			Name: nc.Name, Code: nc.Code, Dept: nc.Dept, Day: "Wed", Time: nc.Time, Credits: 3,
			Capacity: 50, Status: "inactive",
		})
		require.NoError(t, err)
		assert.Equal(t, schedule.Wed, updated.Day)
		assert.Equal(t, catalog.StatusInactive, updated.Status)
		assert.Equal(t, course.CreatedAt, updated.CreatedAt)

		require.NoError(t, svc.Delete(ctx, course.ID))
		_, err = svc.GetByID(ctx, course.ID)
		assert.Equal(t, catalog.ErrNotFound, err)
	})
}

func TestCourse_Availability(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		enrolled int
		want     catalog.Availability
	}{
		{name: "empty", capacity: 60, enrolled: 0, want: catalog.Availability{Enrolled: 0, SeatsLeft: 60}},
		{name: "below 95%", capacity: 60, enrolled: 56, want: catalog.Availability{Enrolled: 56, SeatsLeft: 4}},
		{name: "almost full", capacity: 60, enrolled: 57, want: catalog.Availability{Enrolled: 57, SeatsLeft: 3, AlmostFull: true}},
		{name: "rounds up to 95%", capacity: 200, enrolled: 189, want: catalog.Availability{Enrolled: 189, SeatsLeft: 11, AlmostFull: true}},
		{name: "overbooked", capacity: 10, enrolled: 12, want: catalog.Availability{Enrolled: 12, SeatsLeft: 0, AlmostFull: true}},
		{name: "no capacity", capacity: 0, enrolled: 0, want: catalog.Availability{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := catalog.Course{ID: "c1", Code: "CS301", Capacity: tt.capacity}
			tt.want.Course = course
			assert.Equal(t, tt.want, course.Availability(tt.enrolled))
		})
	}
}

func TestService_Suggest(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateCourse(t, repo, "CS301", schedule.Mon, "09:00-10:30", 4)
	testutil.CreateCourse(t, repo, "MA201", schedule.Mon, "13:00-14:30", 3)

	tests := []struct {
		name      string
		query     string
		wantCodes []string
	}{
		{name: "empty query", query: "  ", wantCodes: []string{}},
		{name: "typo", query: "cs310", wantCodes: []string{"CS301"}},
		{name: "nothing alike", query: "quantum", wantCodes: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggest(ctx, tt.query, 0)
			require.NoError(t, err)
			codes := make([]string, 0, len(got))
			for _, s := range got {
				codes = append(codes, s.Course.Code)
				assert.GreaterOrEqual(t, s.Score, .6)
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestSeedCourses(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	codes := make(map[string]int)
	for _, nc := range catalog.SeedCourses() {
		nc := nc
		require.NoError(t, nc.Validate(ctx, svc), nc.Code)
		_, err := svc.Create(ctx, nc)
		require.NoError(t, err)
		codes[nc.Code]++
	}
	assert.Equal(t, 2, codes["CS301"])
	courses, err := svc.Query(ctx, catalog.QueryFilter{})
	require.NoError(t, err)
	for _, c := range courses {
		assert.True(t, c.IsActive(), c.Code)
		assert.GreaterOrEqual(t, c.Capacity, 10, c.Code)
	}
	assert.Equal(t, 2, codes["MA201"])

	secs, err := svc.Sections(ctx)
	require.NoError(t, err)
	assert.Len(t, secs, len(catalog.SeedCourses()))
}
