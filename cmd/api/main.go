package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
	"loft-shop/interfaces/api/routes"
	"loft-shop/pkg/di"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

func main() {
	container := di.NewContainer()

	if err := container.Initialize(); err != nil {
		// ใช้ log พื้นฐานก่อน logger init
		panic("Failed to initialize container: " + err.Error())
	}

	setupGracefulShutdown(container)

	cfg := container.GetConfig()
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Storage.MaxUploadSize) + 1024*1024, // รูปสินค้า + multipart overhead
	})

	// Setup middleware (order matters!)
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(middleware.RequestIDMiddleware()) // ต้องมาก่อน logger
	app.Use(middleware.LoggerMiddleware())
	app.Use(helmet.New(helmet.Config{
		XFrameOptions: "DENY",
		HSTSMaxAge:    31536000,
	}))
	app.Use(middleware.CorsMiddleware(cfg.App.CORSOrigins))

	// local storage เสิร์ฟรูปเอง, S3 ใช้ public URL ของ bucket
	if container.LocalStorage != nil {
		app.Static("/files", container.LocalStorage.BasePath(), fiber.Static{
			ByteRange: true,
			MaxAge:    86400,
		})
	}

	h := handlers.NewHandlers(container.GetHandlerServices())
	routes.SetupRoutes(app, h, container.GetAuthConfig())

	// ไม่ตรง route ไหนเลย
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Route not found")
	})

	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"app", cfg.App.Name,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"api", "http://localhost:"+port+"/api/v1",
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
