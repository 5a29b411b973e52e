package main

import (
	"log"
	"net/http"
	"os"

	"unifiedweb_go/config"
	"unifiedweb_go/controllers"
	"unifiedweb_go/database"
	"unifiedweb_go/database/seeders"
	"unifiedweb_go/middleware"
	"unifiedweb_go/routes"
	"unifiedweb_go/services/events"
	"unifiedweb_go/services/grades"
	"unifiedweb_go/services/health"
	"unifiedweb_go/services/logarchive"
	"unifiedweb_go/services/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "UnifiedWeb API"
	serviceVersion = "1.0.0"
)

func init() {
	setupLogging()

	config.LoadConfig()

	// Connect migrates unless SkipMigrate is set
	database.Connect()
	if !config.AppConfig.SkipMigrate {
		seeders.SeedAll()
	}
}

func main() {
	// Event hub feeds the live grade grid and notifications
	hub := events.NewHub()
	go hub.Run()

	gradesService := grades.NewService(hub)
	notifier := notifications.NewService(hub)
	archiver := logarchive.NewService()
	archiver.Start()
	defer archiver.Stop()

	healthService := health.NewService(serviceName, serviceVersion)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxFileSize),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Custom middleware
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.LogActivityMiddleware())

	routes.SetupRoutes(app, routes.Deps{
		Hub:      hub,
		Grades:   gradesService,
		Notifier: notifier,
		Archiver: archiver,
		Health:   healthService,
	})

	// Plain net/http websocket bridge for clients outside the fiber
	// listener (ops tooling, legacy dashboard agents)
	if config.AppConfig.WSBridgePort != "" {
		bridge := controllers.NewWebSocketController(hub)
		mux := http.NewServeMux()
		mux.Handle("/ws", bridge.HTTPUpgradeHandler())
		go func() {
			addr := ":" + config.AppConfig.WSBridgePort
			log.Printf("WebSocket bridge listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logrus.WithError(err).Error("WebSocket bridge stopped")
			}
		}()
	}

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	addr := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", config.AppConfig.Port)
	log.Printf("%s v%s (%s)", serviceName, serviceVersion, config.AppConfig.AppEnv)

	if err := app.Listen(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if os.Getenv("APP_ENV") == "development" {
		logrus.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logrus.SetOutput(file)
		}
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
