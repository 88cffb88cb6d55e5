package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core/catalog"
)

const defaultSuggestLimit = 5

// enrollmentCounter tells how many students hold a seat in a section.
type enrollmentCounter interface {
	Enrolled(ctx context.Context, sectionID string) (int, error)
}

type catalogApi struct {
	svc        *catalog.Service
	enrollment enrollmentCounter
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service, enrollment enrollmentCounter) {
	api := catalogApi{svc: svc, enrollment: enrollment}

	cg := g.Group("/courses")

	// public endpoints
	cg.GET("", api.query)
	cg.GET("/departments", api.departments)
	cg.GET("/suggest", api.suggest)
	cg.GET("/:id", api.retrieve)

	// admin endpoints
	cg.POST("", api.create, jwt, adminMiddleware())
	cg.PUT("/:id", api.update, jwt, adminMiddleware())
	cg.DELETE("/:id", api.destroy, jwt, adminMiddleware())
}

// Handlers

func (api *catalogApi) query(ctx echo.Context) error {
	filter := new(catalog.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []catalog.Course{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, catalog.OrderingFields...)

	courses, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) departments(ctx echo.Context) error {
	depts, err := api.svc.Departments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing departments")
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *catalogApi) suggest(ctx echo.Context) error {
	limit := defaultSuggestLimit
	if l, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}
	suggestions, err := api.svc.Suggest(ctx.Request().Context(), ctx.QueryParam("q"), limit)
	if err != nil {
		return errors.Wrap(err, "suggesting courses")
	}
	return ctx.JSON(http.StatusOK, suggestions)
}

func (api *catalogApi) retrieve(ctx echo.Context) error {
	course, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	enrolled, err := api.enrollment.Enrolled(ctx.Request().Context(), course.ID)
	if err != nil {
		return errors.Wrap(err, "counting enrollment")
	}
	return ctx.JSON(http.StatusOK, course.Availability(enrolled))
}

func (api *catalogApi) create(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	course, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *catalogApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}

	var data catalog.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(ctx.Request().Context(), orig, api.svc); err != nil {
		return err
	}

	course, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *catalogApi) destroy(ctx echo.Context) error {
	course, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	if err := api.svc.Delete(ctx.Request().Context(), course.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}
