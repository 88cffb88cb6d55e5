package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/schedule"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrCodeSlotExists = errors.New("this course is already offered at that time")

	suggestMinRatio = .6
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, course Course) (Course, error)
		// QueryCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Course.Name or Course.Code.
		QueryCourses(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		// FindCourseSlot returns the course offering `code` on `day` at `time`, or ErrNotFound.
		FindCourseSlot(ctx context.Context, code string, day schedule.Day, time string) (Course, error)
		UpdateCourse(ctx context.Context, course Course) (Course, error)
		DeleteCourses(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}

	Suggestion struct {
		Course Course  `json:"course"`
		Score  float64 `json:"score"`
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkSlotUniqueness(ctx context.Context, code string, day schedule.Day, tm string, excl ...Course) error {
	existing, err := svc.repo.FindCourseSlot(ctx, code, day, tm)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return errors.Wrap(err, "finding course slot")
	}
	for _, c := range excl {
		if c.ID == existing.ID {
			return nil
		}
	}
	return core.NewValidationError(ErrCodeSlotExists, core.FieldError{Field: "time", Error: ErrCodeSlotExists.Error()})
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	course := Course{
		Name:       nc.Name,
		Code:       nc.Code,
		Dept:       nc.Dept,
		Day:        schedule.Day(nc.Day),
		Time:       nc.Time,
		Credits:    nc.Credits,
		Capacity:   nc.Capacity,
		Status:     Status(nc.Status),
		Instructor: nc.Instructor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateCourse(ctx, course)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter, orderings...)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, core.CleanString(id))
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	course := Course{
		ID:         id,
		Name:       uc.Name,
		Code:       uc.Code,
		Dept:       uc.Dept,
		Day:        schedule.Day(uc.Day),
		Time:       uc.Time,
		Credits:    uc.Credits,
		Capacity:   uc.Capacity,
		Status:     Status(uc.Status),
		Instructor: uc.Instructor,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(ctx, course)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCourses(ctx, ids...)
}

// Section looks up a course and converts it for conflict detection.
func (svc *Service) Section(ctx context.Context, id string) (schedule.CourseSection, error) {
	course, err := svc.GetByID(ctx, id)
	if err != nil {
		return schedule.CourseSection{}, err
	}
	return course.Section()
}

// Seats returns the capacity of a course and whether it takes registrations.
func (svc *Service) Seats(ctx context.Context, id string) (int, bool, error) {
	course, err := svc.GetByID(ctx, id)
	if err != nil {
		return 0, false, err
	}
	return course.Capacity, course.IsActive(), nil
}

// Sections returns every catalog course as a section; courses with an unparsable time are skipped.
func (svc *Service) Sections(ctx context.Context) ([]schedule.CourseSection, error) {
	courses, err := svc.repo.QueryCourses(ctx, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	secs := make([]schedule.CourseSection, 0, len(courses))
	for _, c := range courses {
		if sec, err := c.Section(); err == nil {
			secs = append(secs, sec)
		}
	}
	return secs, nil
}

// Departments returns the distinct departments of the catalog, sorted.
func (svc *Service) Departments(ctx context.Context) ([]string, error) {
	courses, err := svc.repo.QueryCourses(ctx, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	seen := make(map[string]bool)
	depts := make([]string, 0)
	for _, c := range courses {
		if !seen[c.Dept] {
			seen[c.Dept] = true
			depts = append(depts, c.Dept)
		}
	}
	sort.Strings(depts)
	return depts, nil
}

// Suggest ranks courses whose name or code resemble query, best match first.
// Used as a "did you mean" when a plain search comes back empty.
func (svc *Service) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = core.CleanString(query, true /* lower */)
	if query == "" {
		return []Suggestion{}, nil
	}
	courses, err := svc.repo.QueryCourses(ctx, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	suggestions := make([]Suggestion, 0)
	for _, c := range courses {
		score := similarity(query, strings.ToLower(c.Name))
		if s := similarity(query, strings.ToLower(c.Code)); s > score {
			score = s
		}
		if score >= suggestMinRatio {
			suggestions = append(suggestions, Suggestion{Course: c, Score: score})
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].Score > suggestions[j].Score })
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
