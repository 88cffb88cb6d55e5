package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/core/schedule"
)

type cartApi struct {
	svc *registration.Service
}

type (
	// ReplaceRequest names the section that takes the place of the one in the path.
	ReplaceRequest struct {
		SectionID string `json:"section_id" validate:"required,notblank"`
	}

	CheckResponse struct {
		OK bool `json:"ok"`
	}
)

func (r *ReplaceRequest) Validate() error {
	r.SectionID = core.CleanString(r.SectionID)
	return core.Validate.Struct(r)
}

func registerCartAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *registration.Service) {
	api := cartApi{svc: svc}

	cg := g.Group("/cart", jwt)
	cg.GET("", api.summary)
	cg.GET("/timetable", api.timetable)
	cg.GET("/conflicts", api.conflicts)
	cg.GET("/check/:id", api.check)
	cg.POST("/submit", api.submit)
	cg.POST("/withdraw", api.withdraw)

	sg := cg.Group("/sections/:id")
	sg.POST("", api.add)
	sg.DELETE("", api.remove)
	sg.POST("/toggle", api.toggle)
	sg.POST("/replace", api.replace)
	sg.GET("/alternatives", api.alternatives)
}

// Handlers

func (api *cartApi) summary(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx, http.StatusOK, sid)
}

// respond sends the student's up-to-date cart Summary.
func (api *cartApi) respond(ctx echo.Context, code int, studentID string) error {
	sum, err := api.svc.Summary(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "summarizing cart")
	}
	return ctx.JSON(code, sum)
}

func (api *cartApi) timetable(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	cart, err := api.svc.Cart(ctx.Request().Context(), sid)
	if err != nil {
		return errors.Wrap(err, "getting cart")
	}
	return ctx.JSON(http.StatusOK, schedule.ByDay(cart.Sections))
}

func (api *cartApi) conflicts(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	pairs, err := api.svc.Conflicts(ctx.Request().Context(), sid)
	if err != nil {
		return errors.Wrap(err, "finding conflicts")
	}
	if pairs == nil {
		pairs = []schedule.ConflictPair{}
	}
	return ctx.JSON(http.StatusOK, pairs)
}

func (api *cartApi) check(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Check(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "checking section")
	}
	return ctx.JSON(http.StatusOK, CheckResponse{OK: true})
}

func (api *cartApi) add(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.Add(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "adding section")
	}
	return api.respond(ctx, http.StatusCreated, sid)
}

func (api *cartApi) remove(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.Remove(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing section")
	}
	return api.respond(ctx, http.StatusOK, sid)
}

func (api *cartApi) toggle(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.Toggle(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "toggling section")
	}
	return api.respond(ctx, http.StatusOK, sid)
}

func (api *cartApi) replace(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	var data ReplaceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReplaceRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if _, err := api.svc.Replace(ctx.Request().Context(), sid, ctx.Param("id"), data.SectionID); err != nil {
		return errors.Wrap(err, "replacing section")
	}
	return api.respond(ctx, http.StatusOK, sid)
}

func (api *cartApi) alternatives(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	alts, err := api.svc.Alternatives(ctx.Request().Context(), sid, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding alternatives")
	}
	return ctx.JSON(http.StatusOK, alts)
}

func (api *cartApi) submit(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.Submit(ctx.Request().Context(), sid); err != nil {
		return errors.Wrap(err, "submitting cart")
	}
	return api.respond(ctx, http.StatusOK, sid)
}

func (api *cartApi) withdraw(ctx echo.Context) error {
	sid, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.Withdraw(ctx.Request().Context(), sid); err != nil {
		return errors.Wrap(err, "withdrawing cart")
	}
	return api.respond(ctx, http.StatusOK, sid)
}
