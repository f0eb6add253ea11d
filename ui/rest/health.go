package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ngophulan456hn/alice-assignment/config"
	"github.com/ngophulan456hn/alice-assignment/domains/health"
	"github.com/ngophulan456hn/alice-assignment/pkg/utils"
)

type Health struct {
	Service health.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service health.IHealthUsecase) Health {
	handler := Health{Service: service}

	app.Get("/", handler.Root)
	app.Get("/health", handler.Check)
	app.Get("/health/records", handler.Records)

	return handler
}

// Root is the liveness line: the process is up, plus store connectivity.
func (handler *Health) Root(c *fiber.Ctx) error {
	store := health.StateDisconnected
	if handler.Service.StoreConnected(c.UserContext()) {
		store = health.StateConnected
	}
	return c.JSON(fiber.Map{
		"message": "AI chat gateway is running",
		"version": config.Global.App.Version,
		"store":   store,
	})
}

func (handler *Health) Check(c *fiber.Ctx) error {
	return c.JSON(handler.Service.Check(c.UserContext()))
}

func (handler *Health) Records(c *fiber.Ctx) error {
	records, err := handler.Service.Records(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health records retrieved",
		Results: records,
	})
}
