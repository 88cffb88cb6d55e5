package catalog

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/schedule"
)

// Orderable fields for QueryCourses.
var OrderingFields = []string{"code", "name", "dept", "day", "credits", "capacity", "created_at"}

// Statuses
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	DefaultCapacity   = 60
	almostFullPercent = 95
)

// Status tells whether a course takes registrations.
type Status string

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

type Course struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Code       string       `json:"code"`
	Dept       string       `json:"dept"`
	Day        schedule.Day `json:"day"`
	Time       string       `json:"time"` // HH:MM-HH:MM
	Credits    int          `json:"credits"`
	Capacity   int          `json:"capacity"`
	Status     Status       `json:"status"`
	Instructor string       `json:"instructor,omitempty"`
	CreatedAt  time.Time    `json:"created_at"` // UTC
	UpdatedAt  time.Time    `json:"updated_at"` // UTC
}

func (c Course) IsActive() bool {
	return c.Status == StatusActive
}

// Availability is a course along with how many of its seats are taken.
type Availability struct {
	Course
	Enrolled   int  `json:"enrolled"`
	SeatsLeft  int  `json:"seats_left"`
	AlmostFull bool `json:"almost_full"`
}

// Availability reports the seats left once enrolled students are seated.
// A course is almost full from 95% of its capacity.
func (c Course) Availability(enrolled int) Availability {
	left := c.Capacity - enrolled
	if left < 0 {
		left = 0
	}
	var almostFull bool
	if c.Capacity > 0 {
		almostFull = math.Round(float64(enrolled)*100/float64(c.Capacity)) >= almostFullPercent
	}
	return Availability{Course: c, Enrolled: enrolled, SeatsLeft: left, AlmostFull: almostFull}
}

// Section converts the course into the form used for conflict detection.
func (c Course) Section() (schedule.CourseSection, error) {
	start, end, err := schedule.ParseTimeRange(c.Time)
	if err != nil {
		return schedule.CourseSection{}, errors.Wrapf(err, "course %s", c.ID)
	}
	return schedule.CourseSection{
		ID:          c.ID,
		Code:        c.Code,
		Day:         c.Day,
		StartMinute: start,
		EndMinute:   end,
		Credits:     c.Credits,
	}, nil
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name       string `json:"name" validate:"required,notblank"`
	Code       string `json:"code" validate:"required,coursecode"`
	Dept       string `json:"dept" validate:"required,notblank"`
	Day        string `json:"day" validate:"required,weekday"`
	Time       string `json:"time" validate:"required,timerange"`
	Credits    int    `json:"credits" validate:"required,min=1,max=12"`
	Capacity   int    `json:"capacity" validate:"min=10,max=200"` // defaults to DefaultCapacity
	Status     string `json:"status" validate:"coursestatus"`     // defaults to active
	Instructor string `json:"instructor"`
}

func (nc *NewCourse) Validate(ctx context.Context, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = cleanCode(nc.Code)
	nc.Dept = cleanCode(nc.Dept)
	nc.Day = cleanDay(nc.Day)
	nc.Time = core.CleanString(nc.Time)
	nc.Status = orDefault(cleanStatus(nc.Status), string(StatusActive))
	nc.Instructor = core.CleanString(nc.Instructor)
	if nc.Capacity == 0 {
		nc.Capacity = DefaultCapacity
	}

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkSlotUniqueness(ctx, nc.Code, schedule.Day(nc.Day), nc.Time)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Empty fields keep their current value.
type UpdateCourse struct {
	Name       string `json:"name"`
	Code       string `json:"code" validate:"omitempty,coursecode"`
	Dept       string `json:"dept"`
	Day        string `json:"day" validate:"omitempty,weekday"`
	Time       string `json:"time" validate:"omitempty,timerange"`
	Credits    int    `json:"credits" validate:"omitempty,min=1,max=12"`
	Capacity   int    `json:"capacity" validate:"omitempty,min=10,max=200"`
	Status     string `json:"status" validate:"omitempty,coursestatus"`
	Instructor string `json:"instructor"`
}

func (uc *UpdateCourse) Validate(ctx context.Context, orig Course, svc *Service) error {
	uc.Name = orDefault(core.CleanString(uc.Name), orig.Name)
	uc.Code = orDefault(cleanCode(uc.Code), orig.Code)
	uc.Dept = orDefault(cleanCode(uc.Dept), orig.Dept)
	uc.Day = orDefault(cleanDay(uc.Day), string(orig.Day))
	uc.Time = orDefault(core.CleanString(uc.Time), orig.Time)
	uc.Status = orDefault(cleanStatus(uc.Status), string(orig.Status))
	uc.Instructor = orDefault(core.CleanString(uc.Instructor), orig.Instructor)
	if uc.Credits == 0 {
		uc.Credits = orig.Credits
	}
	if uc.Capacity == 0 {
		uc.Capacity = orig.Capacity
	}

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return svc.checkSlotUniqueness(ctx, uc.Code, schedule.Day(uc.Day), uc.Time, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
	Dept   string `query:"dept"`
	Day    string `query:"day"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Dept == "" && qf.Day == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Dept = cleanCode(qf.Dept)
	qf.Day = cleanDay(qf.Day)
}

func orDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}
