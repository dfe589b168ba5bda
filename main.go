package main

import (
	"context"
	"log/slog"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hyperdxio/otel-config-go/otelconfig"

	"avifconv/api/rest"
	"avifconv/config"
	"avifconv/converter"
	"avifconv/service"
	"avifconv/shared/log"
	"avifconv/shared/trace"
)

//	@title			AVIF Converter API
//	@version		1.0
//	@description	HTTP service converting JPEG/PNG/WEBP images to AVIF

// @BasePath	/
func main() {
	serviceConfig := config.New()

	ctx := context.Background()

	tp := trace.InitTrace(serviceConfig.AppName)
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		slog.Error("Error configuring OpenTelemetry", "error", err)
	}
	defer otelShutdown()

	logger := log.InitLogger(ctx)
	defer func() {
		if err = logger.Sync(); err != nil {
			slog.Error("Error syncing logger", "error", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:   serviceConfig.AppName,
		BodyLimit: int(serviceConfig.BodyLimit()),
	})
	app.Use(
		recover.New(),
		otelfiber.Middleware(),
		fiberzap.New(fiberzap.Config{Logger: logger}),
		cors.New(cors.Config{
			// Permissive by default, meant to be tightened per deployment.
			// Credentials with a wildcard require echoing the origin back.
			AllowOriginsFunc: func(string) bool { return true },
			AllowCredentials: true,
			AllowHeaders:     "*",
		}),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
		etag.New(),
		limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.IP() == "127.0.0.1"
			},
			Max:        serviceConfig.RateLimitMaxRequests,
			Expiration: serviceConfig.RateLimitDuration,
		}),
		swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "AVIF Converter API",
		}),
	)

	imageService := service.NewImageService(serviceConfig, converter.New(logger), logger)

	rest.NewConvertController(app, serviceConfig, imageService, logger)

	if err = app.Listen(":" + serviceConfig.Port); err != nil {
		logger.Panic(err.Error())
	}
}
