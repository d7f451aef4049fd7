package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/chat"
)

type chatApi struct {
	svc chat.Service
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc chat.Service) {
	api := chatApi{svc: svc}

	cg := g.Group("/chat/rooms", jwt)
	cg.GET("", api.queryRooms)
	cg.GET("/:id/messages", api.history)
	cg.POST("/:id/messages", api.send)
}

func (api *chatApi) queryRooms(ctx echo.Context) error {
	rooms, err := api.svc.Rooms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying chat rooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *chatApi) history(ctx echo.Context) error {
	msgs, err := api.svc.History(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying chat history")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *chatApi) send(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data chat.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	msg, err := api.svc.Send(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "sending chat message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}
