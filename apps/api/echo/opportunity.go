package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/user"
)

type opportunityApi struct {
	svc      opportunity.Service
	appSvc   application.Service
	validate *validator.Validate
}

func registerOpportunityAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc opportunity.Service,
	appSvc application.Service,
	validate *validator.Validate,
) {
	api := opportunityApi{svc: svc, appSvc: appSvc, validate: validate}
	professor := roleMiddleware(user.RoleProfessor)

	og := g.Group("/opportunities", jwt)
	og.GET("", api.query)
	og.POST("", api.create, professor)
	og.GET("/mine", api.queryMine, professor)
	og.GET("/:id", api.retrieve)
	og.DELETE("/:id", api.destroy, professor)
	og.POST("/:id/applications", api.apply, roleMiddleware(user.RoleStudent))
}

func (api *opportunityApi) query(ctx echo.Context) error {
	var filter opportunity.Filter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	opps, err := api.svc.QueryAll(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying opportunities")
	}
	return ctx.JSON(http.StatusOK, opps)
}

func (api *opportunityApi) queryMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	opps, err := api.svc.ByProfessor(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying professor opportunities")
	}
	return ctx.JSON(http.StatusOK, opps)
}

func (api *opportunityApi) retrieve(ctx echo.Context) error {
	o, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting opportunity")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *opportunityApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data opportunity.NewOpportunity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOpportunity")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	o, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating opportunity")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *opportunityApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting opportunity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *opportunityApi) apply(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	app, err := api.appSvc.Apply(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "applying to opportunity")
	}
	return ctx.JSON(http.StatusCreated, app)
}
