package public

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/voice_translator/internal/app"
	"github.com/ncecere/voice_translator/internal/catalog"
	"github.com/ncecere/voice_translator/internal/models"
)

type translateHandler struct {
	container *app.Container
}

// translate always answers 200; failures are reported in the response body.
func (h *translateHandler) translate(c *fiber.Ctx) error {
	var in models.TranslateInput
	if err := c.BodyParser(&in); err != nil {
		h.container.Logger.Warn("translate body rejected",
			slog.String("request_id", requestID(c)),
			slog.Any("error", err),
		)
		in = models.TranslateInput{}
	}
	resp := h.container.Translate.Handle(c.UserContext(), in)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *translateHandler) languages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"object": "list",
		"data":   catalog.Languages(),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
