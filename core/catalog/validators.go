package catalog

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/schedule"
)

var (
	courseCodeTag   = "coursecode"
	courseCodeText  = "course codes look like CS301"
	courseCodeRegex = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}[A-Z]?$`)

	weekdayTag  = "weekday"
	weekdayText = "day must be one of Mon, Tue, Wed, Thu, Fri"

	timeRangeTag  = "timerange"
	timeRangeText = "time must be a HH:MM-HH:MM range ending after it starts"

	courseStatusTag  = "coursestatus"
	courseStatusText = "status must be active or inactive"
)

func init() {
	core.RegisterRegexValidation(courseCodeTag, courseCodeText, courseCodeRegex)

	_ = core.Validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(weekdayTag, weekdayText)

	_ = core.Validate.RegisterValidation(timeRangeTag, timeRangeValidation)
	core.RegisterCustomTranslation(timeRangeTag, timeRangeText)

	_ = core.Validate.RegisterValidation(courseStatusTag, courseStatusValidation)
	core.RegisterCustomTranslation(courseStatusTag, courseStatusText)
}

func cleanCode(s string) string {
	return strings.ToUpper(core.CleanString(s))
}

// cleanDay normalizes "mon" / " MON " into "Mon"; anything unparsable is left for the validator.
func cleanDay(s string) string {
	if d, err := schedule.ParseDay(s); err == nil {
		return string(d)
	}
	return core.CleanString(s)
}

func cleanStatus(s string) string {
	return strings.ToLower(core.CleanString(s))
}

// Custom Validators

func courseStatusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).IsValid()
}

func weekdayValidation(fl validator.FieldLevel) bool {
	return schedule.Day(fl.Field().String()).IsValid()
}

func timeRangeValidation(fl validator.FieldLevel) bool {
	_, _, err := schedule.ParseTimeRange(fl.Field().String())
	return err == nil
}
