package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
)

type profileApi struct {
	svc      profile.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc profile.Service, validate *validator.Validate) {
	api := profileApi{svc: svc, validate: validate}

	pg := g.Group("/profiles/:userId", jwt)
	pg.GET("", api.retrieve)
	pg.PUT("", api.save, roleMiddleware(user.RoleStudent))
}

// retrieve is open to the student themselves, professors and admins.
func (api *profileApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	userID := ctx.Param("userId")
	if usr.ID != userID && !usr.HasRole(user.RoleProfessor, user.RoleAdmin) {
		return errHttpForbidden
	}

	p, err := api.svc.Get(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) save(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	userID := ctx.Param("userId")
	if usr.ID != userID {
		return errHttpForbidden
	}

	var data profile.StudentProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentProfile")
	}
	data.UserID = userID
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	return ctx.JSON(http.StatusOK, p)
}
