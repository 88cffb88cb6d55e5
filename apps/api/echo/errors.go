package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/core/schedule"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// Machine readable codes sent along with registration rule violations.
const (
	codeTimeConflict        = "time_conflict"
	codeCreditLimit         = "credit_limit_exceeded"
	codeAlreadySelected     = "already_selected"
	codeCartLocked          = "cart_locked"
	codeNotPending          = "not_pending"
	codeUnresolvedConflicts = "unresolved_conflicts"
	codeNotSelected         = "not_selected"
	codeSectionClosed       = "section_closed"
	codeSectionFull         = "section_full"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *schedule.TimeConflictError:
			code = http.StatusConflict
			message = echo.Map{"error": origErr.Error(), "code": codeTimeConflict, "with": origErr.With}
		case *schedule.CreditLimitExceededError:
			code = http.StatusUnprocessableEntity
			message = echo.Map{
				"error":     origErr.Error(),
				"code":      codeCreditLimit,
				"attempted": origErr.Attempted,
				"max":       origErr.Max,
			}
		case *registration.SectionFullError:
			code = http.StatusConflict
			message = echo.Map{"error": origErr.Error(), "code": codeSectionFull, "capacity": origErr.Capacity}
		case *registration.UnresolvedConflictsError:
			code = http.StatusConflict
			message = echo.Map{"error": origErr.Error(), "code": codeUnresolvedConflicts, "conflicts": origErr.Pairs}
		default:
			if c, m, ok := sentinelResponse(origErr); ok {
				code, message = c, m
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var person core.Person
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				person = claims.Person()
			}
			logger.Error(msg, errors.Wrap(err, msg), person)

			if ctx.Echo().Debug {
				message = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// sentinelResponse maps the domain's sentinel errors to a status and body.
func sentinelResponse(err error) (int, interface{}, bool) {
	switch err {
	case catalog.ErrNotFound, registration.ErrNotFound:
		return http.StatusNotFound, err.Error(), true
	case registration.ErrEmptyCart:
		return http.StatusBadRequest, err.Error(), true
	case schedule.ErrAlreadySelected:
		return http.StatusConflict, echo.Map{"error": err.Error(), "code": codeAlreadySelected}, true
	case registration.ErrCartLocked:
		return http.StatusConflict, echo.Map{"error": err.Error(), "code": codeCartLocked}, true
	case registration.ErrNotPending:
		return http.StatusConflict, echo.Map{"error": err.Error(), "code": codeNotPending}, true
	case registration.ErrNotSelected:
		return http.StatusNotFound, echo.Map{"error": err.Error(), "code": codeNotSelected}, true
	case registration.ErrSectionClosed:
		return http.StatusConflict, echo.Map{"error": err.Error(), "code": codeSectionClosed}, true
	}
	return 0, nil, false
}
