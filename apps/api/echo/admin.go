package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/user"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type adminApi struct {
	svc    admin.Service
	usrSvc user.Service
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc admin.Service, usrSvc user.Service) {
	api := adminApi{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/admin", jwt, roleMiddleware(user.RoleAdmin))
	ag.GET("/stats", api.stats)
	ag.GET("/stats/export", api.exportStats)
	ag.GET("/users", api.queryUsers)
}

func (api *adminApi) stats(ctx echo.Context) error {
	st, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *adminApi) exportStats(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.svc.ExportStats(ctx.Request().Context(), &buf); err != nil {
		return errors.Wrap(err, "exporting stats")
	}
	filename := fmt.Sprintf("edumatch-stats-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (api *adminApi) queryUsers(ctx echo.Context) error {
	users, err := api.usrSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}
