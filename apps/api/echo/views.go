package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/nav"
	"github.com/trezcool/edumatch/core/user"
)

const viewsPrefix = "/views"

type ViewResponse struct {
	Path  string         `json:"path"`
	Title string         `json:"title"`
	User  *user.User     `json:"user,omitempty"`
	Menu  []nav.MenuItem `json:"menu,omitempty"`
}

type viewsApi struct {
	tokens *tokenIssuer
}

// registerViews serves the guarded app routes. An invalid or missing token is an anonymous visit.
func registerViews(g *echo.Group, tokens *tokenIssuer) {
	api := viewsApi{tokens: tokens}
	g.GET("", api.render)
	g.GET("/*", api.render)
}

func (api *viewsApi) render(ctx echo.Context) error {
	var usr *user.User
	if claims, ok := api.tokens.parseRequestClaims(ctx); ok {
		u := claims.User()
		usr = &u
	}

	path := "/" + ctx.Param("*")
	decision, err := nav.Navigate(usr != nil, usr, path)
	if err != nil {
		if errors.Cause(err) == nav.ErrUnknownRoute {
			return echo.NewHTTPError(http.StatusNotFound, "page not found")
		}
		return errors.Wrap(err, "navigating")
	}
	if decision.Outcome != nav.Render {
		return ctx.Redirect(http.StatusSeeOther, viewsPrefix+decision.Target)
	}

	route, _ := nav.Lookup(decision.Target)
	res := ViewResponse{Path: route.Path, Title: route.Title, User: usr}
	if usr != nil {
		res.Menu = nav.Menu(usr.Role)
	}
	return ctx.JSON(http.StatusOK, res)
}
