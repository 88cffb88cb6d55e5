package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/courseportal/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=dept,-credits`, keeping only the allowed fields.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam), allowed...)
}
