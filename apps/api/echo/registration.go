package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/registration"
)

type registrationApi struct {
	svc *registration.Service
}

func registerRegistrationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *registration.Service) {
	api := registrationApi{svc: svc}

	rg := g.Group("/registrations", jwt, adminMiddleware())
	rg.GET("", api.query)
	rg.POST("/:studentID/approve", api.approve)
	rg.POST("/:studentID/reject", api.reject)
}

// Handlers

func (api *registrationApi) query(ctx echo.Context) error {
	status := registration.Status(core.CleanString(ctx.QueryParam("status"), true /* lower */))
	carts, err := api.svc.Query(ctx.Request().Context(), status)
	if err != nil {
		return errors.Wrap(err, "querying registrations")
	}
	return ctx.JSON(http.StatusOK, carts)
}

func (api *registrationApi) approve(ctx echo.Context) error {
	return api.review(ctx, true)
}

func (api *registrationApi) reject(ctx echo.Context) error {
	return api.review(ctx, false)
}

func (api *registrationApi) review(ctx echo.Context, approve bool) error {
	cart, err := api.svc.Review(ctx.Request().Context(), ctx.Param("studentID"), approve)
	if err != nil {
		return errors.Wrap(err, "reviewing registration")
	}
	return ctx.JSON(http.StatusOK, cart)
}
