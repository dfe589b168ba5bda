package rest

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"avifconv/api/model"
	"avifconv/config"
	"avifconv/service"
	"avifconv/shared/log"
)

type ConvertController struct {
	cfg     *config.Config
	service *service.ImageService
	logger  *zap.Logger
}

func NewConvertController(app *fiber.App, cfg *config.Config, service *service.ImageService, logger *zap.Logger) *ConvertController {
	i := &ConvertController{cfg: cfg, service: service, logger: logger}

	app.Post("/convert", i.Upload)
	app.Post("/convert-url", i.FromURL)
	app.Get("/", i.Health)

	return i
}

// Upload converts an uploaded image
//
//	@Summary		Convert uploaded JPG/PNG/WEBP to AVIF
//	@Description	Converts a multipart-uploaded image to AVIF with optional resizing and quality/lossless controls.
//	@Tags			convert
//	@Accept			multipart/form-data
//	@Produce		image/avif
//	@Param			file		formData	file	true	"Image file (JPEG/JPG/PNG/WEBP)"
//	@Param			quality		query		int		false	"Quality 1-100"	default(60)
//	@Param			lossless	query		bool	false	"Lossless mode"
//	@Param			width		query		int		false	"Target width"
//	@Param			height		query		int		false	"Target height"
//	@Success		200			{file}		file	"AVIF bytes"
//	@Router			/convert [post]
func (i *ConvertController) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()
	logger := log.LoggerWithTrace(ctx, i.logger)

	// Declared types are rejected before the payload is touched. Multipart
	// requests defer the check to the file part's own header.
	declared := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(declared), "multipart/") {
		if _, err := model.MakeFromContentType(declared); err != nil {
			return unsupportedMediaType(c)
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Error("Error reading multipart file", zap.Error(err))
		return detail(c, fiber.StatusBadRequest, "file field is required")
	}

	if _, err = model.MakeFromContentType(fileHeader.Header.Get(fiber.HeaderContentType)); err != nil {
		return unsupportedMediaType(c)
	}

	params := model.DefaultConvertParams()
	if err = c.QueryParser(&params); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}
	if err = params.Validate(); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Error opening uploaded file", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Error reading uploaded file", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	image, err := i.service.Convert(ctx, data, params, baseName(fileHeader.Filename))
	if err != nil {
		logger.Error("Error converting image", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	return send(c, image)
}

// FromURL converts an image fetched by URL
//
//	@Summary		Convert image by URL (JPG/PNG/WEBP) to AVIF
//	@Description	Fetches a remote image over http(s) and converts it to AVIF.
//	@Tags			convert
//	@Produce		image/avif
//	@Param			url			query	string	true	"Image URL (http or https)"
//	@Param			quality		query	int		false	"Quality 1-100"	default(60)
//	@Param			lossless	query	bool	false	"Lossless mode"
//	@Param			width		query	int		false	"Target width"
//	@Param			height		query	int		false	"Target height"
//	@Param			timeout		query	number	false	"Fetch timeout in seconds, 1-60"	default(20)
//	@Success		200			{file}	file	"AVIF bytes"
//	@Router			/convert-url [post]
func (i *ConvertController) FromURL(c *fiber.Ctx) error {
	ctx := c.UserContext()
	logger := log.LoggerWithTrace(ctx, i.logger)

	params := model.DefaultFetchParams()
	if err := c.QueryParser(&params); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}
	if !params.ValidURL() {
		return detail(c, fiber.StatusBadRequest, "Invalid URL.")
	}
	if err := params.Validate(); err != nil {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}

	image, err := i.service.ConvertFromURL(ctx, params)
	if err != nil {
		var fetchErr *service.FetchError
		if errors.As(err, &fetchErr) {
			logger.Error("Error fetching remote image", zap.Error(err))
			return detail(c, fiber.StatusBadGateway, fetchErr.Error())
		}

		logger.Error("Error converting image", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	return send(c, image)
}

// Health is the liveness endpoint
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/ [get]
func (i *ConvertController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"service": config.ServiceName,
		"version": config.Version,
	})
}

func send(c *fiber.Ctx, image *model.ConvertResponse) error {
	c.Set(fiber.HeaderContentType, image.Type)
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(image.ContentLength, 10))
	c.Set(fiber.HeaderContentDisposition, image.ContentDisposition)

	return c.SendStream(image.Body, int(image.ContentLength))
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

func unsupportedMediaType(c *fiber.Ctx) error {
	return detail(c, fiber.StatusUnsupportedMediaType, "Only JPEG/JPG/PNG/WEBP are accepted.")
}

// baseName strips the extension from an uploaded filename, falling back to
// "image" when none was supplied.
func baseName(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" || base == "." {
		return "image"
	}

	return base
}
