package rest

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ngophulan456hn/alice-assignment/domains/document"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
	"github.com/ngophulan456hn/alice-assignment/pkg/utils"
)

type Document struct {
	Service document.IDocumentUsecase
}

func InitRestDocument(app fiber.Router, service document.IDocumentUsecase) Document {
	handler := Document{Service: service}

	app.Post("/upload", handler.Upload)
	app.Delete("/document/:session_id", handler.Clear)
	app.Get("/document/status/:session_id", handler.Status)

	return handler
}

// Upload accepts a multipart file plus the session in the X-Session-ID
// header and scopes the extracted text to that session.
func (handler *Document) Upload(c *fiber.Ctx) error {
	sessionID := c.Get("X-Session-ID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("file: cannot be blank"))
	}

	file, err := fileHeader.Open()
	utils.PanicIfNeeded(err)
	defer file.Close()

	data, err := io.ReadAll(file)
	utils.PanicIfNeeded(err)

	response, err := handler.Service.Upload(c.UserContext(), sessionID, fileHeader.Filename, data)
	utils.PanicIfNeeded(err)

	return c.JSON(response)
}

func (handler *Document) Clear(c *fiber.Ctx) error {
	err := handler.Service.Clear(c.UserContext(), c.Params("session_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Document context cleared",
	})
}

func (handler *Document) Status(c *fiber.Ctx) error {
	status, err := handler.Service.Status(c.UserContext(), c.Params("session_id"))
	utils.PanicIfNeeded(err)

	return c.JSON(status)
}
