package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
	"github.com/ngophulan456hn/alice-assignment/pkg/utils"
)

type Chat struct {
	Service chat.IChatUsecase
}

func InitRestChat(app fiber.Router, service chat.IChatUsecase) Chat {
	handler := Chat{Service: service}

	app.Post("/chat", handler.Send)
	app.Get("/history/:session_id", handler.History)
	app.Delete("/session/:session_id", handler.ClearSession)

	return handler
}

func (handler *Chat) Send(c *fiber.Ctx) error {
	var request chat.SendRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("invalid JSON body"))
	}

	response, err := handler.Service.Send(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(response)
}

func (handler *Chat) History(c *fiber.Ctx) error {
	response, err := handler.Service.History(c.UserContext(), c.Params("session_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(response)
}

func (handler *Chat) ClearSession(c *fiber.Ctx) error {
	err := handler.Service.ClearSession(c.UserContext(), c.Params("session_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session cleared",
	})
}
