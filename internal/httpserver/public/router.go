package public

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/voice_translator/internal/app"
)

// Register wires up the browser-facing translation and audio routes.
func Register(app *fiber.App, container *app.Container) {
	handler := &translateHandler{container: container}
	app.Post("/translate", handler.translate)
	app.Get("/api/languages", handler.languages)

	audio := &audioHandler{container: container}
	app.Get(container.Config.Audio.PublicPrefix+"/:name", audio.download)
}
