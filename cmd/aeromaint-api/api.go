// Package main provides the AeroMaint API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyops/aeromaint/pkg/advisor"
	"github.com/skyops/aeromaint/pkg/eventbus"
	"github.com/skyops/aeromaint/pkg/fleet"
	"github.com/skyops/aeromaint/pkg/mailer"
	"github.com/skyops/aeromaint/pkg/mailer/templates"
	"github.com/skyops/aeromaint/pkg/persistence"
	"github.com/skyops/aeromaint/pkg/services"
	"github.com/skyops/aeromaint/pkg/web"
)

type API struct {
	logger                *slog.Logger
	persistence           persistence.Persistence
	eventBus              eventbus.EventBus
	recommendationService *services.Recommendation
	workflowService       *services.Workflow
	notificationService   *services.Notification
	validate              *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	adv advisor.Advisor,
	transport mailer.Transport,
	fleetSource fleet.Source,
	renderer *templates.Renderer,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:                logger,
		persistence:           p,
		eventBus:              eventBus,
		recommendationService: services.NewRecommendation(p, adv, fleetSource, eventBus, tracer, logger),
		workflowService:       services.NewWorkflow(p, eventBus, tracer, logger),
		notificationService:   services.NewNotification(transport, renderer, nil, eventBus, tracer, logger),
		validate:              validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NotificationService exposes the dispatcher for the reminder sweeper.
func (a *API) NotificationService() *services.Notification {
	return a.notificationService
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.recommendationService, a.workflowService, a.notificationService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("AeroMaint API")
	})

	app.Get("/api/maintenance-schedule", handlers.GetMaintenanceSchedule)
	app.Post("/api/maintenance-schedule", handlers.PostMaintenanceSchedule)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
