package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aulavirtual/aula-go-api/internal/config"
	"github.com/aulavirtual/aula-go-api/internal/handler"
	"github.com/aulavirtual/aula-go-api/internal/middleware"
	"github.com/aulavirtual/aula-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler   *handler.ActivityHandler
	SubmissionHandler *handler.SubmissionHandler
	RankingHandler    *handler.RankingHandler
	LanguageHandler   *handler.LanguageHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.LanguageHandler != nil {
		languages := api.Group("/languages")
		deps.LanguageHandler.Register(languages)
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities)

		courses := api.Group("/courses", jwtMiddleware)
		deps.ActivityHandler.RegisterCourseRoutes(courses)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterActivityRoutes(activities)
		}
	}

	if deps.SubmissionHandler != nil {
		// Grading drives one judge round-trip per test case, so keep the
		// submit rate tight.
		submissions := api.Group("/submissions", jwtMiddleware,
			middleware.RateLimit("submissions", 5, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.RankingHandler != nil {
		rankings := api.Group("/rankings", jwtMiddleware)
		deps.RankingHandler.Register(rankings)
	}
}
