package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mpetrov/liftbook/internal/config"
	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/mpetrov/liftbook/internal/handler"
	"github.com/mpetrov/liftbook/internal/middleware"
	"github.com/mpetrov/liftbook/internal/repository"
	"github.com/mpetrov/liftbook/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	Docs        repository.DocumentStore
	RedisClient *redis.Client
	Verifier    middleware.TokenVerifier
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Exercise catalog: either the built-in list or the exercises
	// collection, optionally cached through Redis
	var catalog domain.ExerciseCatalog
	if deps.Config.Catalog.Source == "store" {
		catalog = repository.NewDocstoreCatalog(deps.Docs)
	} else {
		catalog = domain.NewStaticCatalog(domain.PredefinedExercises)
	}
	if deps.RedisClient != nil {
		cache := repository.NewRedisCache(deps.RedisClient)
		catalog = repository.NewCachedCatalog(catalog, cache)
	}

	// Template store reads the request principal out of the context set
	// by the auth middleware
	store := repository.NewTemplateStore(deps.Docs, middleware.ContextIdentity{})

	exerciseHandler := handler.NewExerciseHandler(catalog)
	templateHandler := handler.NewTemplateHandler(store, catalog)

	app := fiber.New(fiber.Config{
		AppName:      "Liftbook API",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "liftbook",
		})
	})

	v1 := app.Group("/v1")

	// Catalog is public read
	v1.Get("/exercises", exerciseHandler.ListExercises)
	v1.Get("/exercises/:id", exerciseHandler.GetExercise)

	// Templates are private to their owner
	templates := v1.Group("/templates")
	switch deps.Config.Auth.Mode {
	case "local":
		templates.Use(middleware.LocalAuth(deps.Config.Auth.JWTSecret))
	default:
		templates.Use(middleware.FirebaseAuth(deps.Verifier))
	}

	templates.Post("/", templateHandler.CreateTemplate)
	templates.Get("/", templateHandler.ListTemplates)
	templates.Get("/:id", templateHandler.GetTemplate)
	templates.Patch("/:id", templateHandler.UpdateTemplate)
	templates.Delete("/:id", templateHandler.DeleteTemplate)

	templates.Post("/:id/exercises", templateHandler.AddEntry)
	templates.Put("/:id/exercises/:entryId", templateHandler.UpdateEntry)
	templates.Delete("/:id/exercises/:entryId", templateHandler.RemoveEntry)
	templates.Put("/:id/order", templateHandler.ReorderEntries)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
