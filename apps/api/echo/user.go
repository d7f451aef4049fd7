package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/user"
)

type userApi struct {
	svc      user.Service
	tokens   *tokenIssuer
	validate *validator.Validate
}

func registerAuthAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	tokens *tokenIssuer,
	svc user.Service,
	validate *validator.Validate,
) {
	api := userApi{
		svc:      svc,
		tokens:   tokens,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/register", api.register)
	ag.GET("/roles", api.queryRoles)

	// authed endpoints
	ag.GET("/me", api.me, jwt)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

type (
	AuthResponse struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	RoleResponse struct {
		Value user.Role `json:"value"`
		Label string    `json:"label"`
	}
)

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return api.respondWithToken(ctx, http.StatusOK, usr)
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return api.respondWithToken(ctx, http.StatusCreated, usr)
}

func (api *userApi) respondWithToken(ctx echo.Context, code int, usr user.User) error {
	token, err := api.tokens.tokenFor(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, AuthResponse{User: usr, Token: token})
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	roles := make([]RoleResponse, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, RoleResponse{Value: r, Label: r.Label()})
	}
	return ctx.JSON(http.StatusOK, roles)
}

// me resolves the token's user from the store. A token whose user no longer exists is rejected.
func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errUnauthorized
		}
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	token, err := api.tokens.refresh(claims)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}
