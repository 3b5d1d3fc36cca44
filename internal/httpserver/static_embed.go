package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	fiberfs "github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/ncecere/voice_translator/internal/catalog"
	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/models"
)

// webFS holds the landing page template and its static assets.
//
//go:embed web
var webFS embed.FS

const (
	webAssetsRoot = "web/assets"
	indexTemplate = "web/index.html.tmpl"
)

type indexPage struct {
	tmpl *template.Template
}

type indexData struct {
	Languages          []models.Language
	DefaultSource      string
	DefaultDestination string
}

func newIndexPage() (*indexPage, error) {
	tmpl, err := template.ParseFS(webFS, indexTemplate)
	if err != nil {
		return nil, err
	}
	return &indexPage{tmpl: tmpl}, nil
}

func (p *indexPage) handler(cfg config.TranslationConfig) fiber.Handler {
	data := indexData{
		Languages:          catalog.Languages(),
		DefaultSource:      cfg.DefaultSource,
		DefaultDestination: cfg.DefaultDestination,
	}
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := p.tmpl.Execute(&buf, data); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "render index")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}

func mountEmbeddedAssets(app *fiber.App) {
	assets, err := fs.Sub(webFS, webAssetsRoot)
	if err != nil {
		log.Printf("web assets not embedded: %v", err)
		return
	}

	app.Use("/assets", fiberfs.New(fiberfs.Config{
		Root:       http.FS(assets),
		PathPrefix: "",
		Browse:     false,
		MaxAge:     3600,
	}))
}
