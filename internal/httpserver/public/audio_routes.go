package public

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ncecere/voice_translator/internal/app"
	"github.com/ncecere/voice_translator/internal/httpserver/httputil"
	"github.com/ncecere/voice_translator/internal/services/audio"
	"github.com/ncecere/voice_translator/internal/storage/blob"
)

type audioHandler struct {
	container *app.Container
}

func (h *audioHandler) download(c *fiber.Ctx) error {
	if h.container.Audio == nil {
		return httputil.WriteError(c, fiber.StatusNotImplemented, "audio storage disabled")
	}
	name := c.Params("name")
	reader, info, err := h.container.Audio.Open(c.UserContext(), name)
	if err != nil {
		return translateAudioError(c, h.container.Logger, name, err)
	}
	defer reader.Close()
	c.Set("Content-Type", info.ContentType)
	c.Set("Cache-Control", "public, max-age=3600")
	_, err = io.Copy(c, reader)
	return err
}

func translateAudioError(c *fiber.Ctx, logger *slog.Logger, name string, err error) error {
	switch {
	case errors.Is(err, audio.ErrInvalidName), errors.Is(err, blob.ErrNotFound):
		return httputil.WriteError(c, fiber.StatusNotFound, "audio not found")
	default:
		logger.Error("open audio failed", slog.String("name", name), slog.Any("error", err))
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to read audio")
	}
}
