package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/user"
)

type applicationApi struct {
	svc      application.Service
	validate *validator.Validate
}

func registerApplicationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc application.Service, validate *validator.Validate) {
	api := applicationApi{svc: svc, validate: validate}
	professor := roleMiddleware(user.RoleProfessor)

	ag := g.Group("/applications", jwt)
	ag.GET("", api.query, roleMiddleware(user.RoleStudent, user.RoleProfessor))
	ag.POST("/:id/match", api.match, professor)
	ag.PUT("/:id/status", api.setStatus, professor)
}

// query lists a student's own applications, or the applications a professor received.
func (api *applicationApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var apps []application.Application
	switch usr.Role {
	case user.RoleStudent:
		apps, err = api.svc.ByStudent(ctx.Request().Context(), usr.ID)
	case user.RoleProfessor:
		apps, err = api.svc.ByProfessor(ctx.Request().Context(), usr.ID)
	default:
		return errHttpForbidden
	}
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *applicationApi) match(ctx echo.Context) error {
	app, err := api.svc.TriggerMatch(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "triggering match")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *applicationApi) setStatus(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data application.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	app, err := api.svc.SetStatus(ctx.Request().Context(), usr, ctx.Param("id"), data.Status)
	if err != nil {
		return errors.Wrap(err, "setting application status")
	}
	return ctx.JSON(http.StatusOK, app)
}
