package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/skyops/aeromaint/pkg/audit"
	"github.com/skyops/aeromaint/pkg/cmd"
	"github.com/skyops/aeromaint/pkg/fleet"
	"github.com/skyops/aeromaint/pkg/log"
	"github.com/skyops/aeromaint/pkg/mailer/templates"
	"github.com/skyops/aeromaint/pkg/otelhelper"
	"github.com/skyops/aeromaint/pkg/reminder"
)

const defaultPort = 9091

func main() {
	// Load .env if present; real env always wins.
	_ = godotenv.Load()

	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "aeromaint-api",
		Usage:                 "Maintenance recommendation and approval pipeline for the charter fleet",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Persistence URL (file://, postgres:// or redis://)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringSliceFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka broker addresses (with --event-bus kafka)",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "email-provider",
				Usage:   "Notification transport (simulation, gmail, sendgrid, mailtrap, smtp)",
				Value:   "simulation",
				Sources: cli.EnvVars("EMAIL_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "email-from",
				Usage:   "Sender address for outgoing notifications",
				Value:   "noreply@skyops.example",
				Sources: cli.EnvVars("EMAIL_FROM"),
			},
			&cli.StringFlag{
				Name:    "email-from-name",
				Usage:   "Sender display name for outgoing notifications",
				Value:   "SkyOps Maintenance",
				Sources: cli.EnvVars("EMAIL_FROM_NAME"),
			},
			&cli.StringFlag{
				Name:    "smtp-preset",
				Usage:   "SMTP relay preset (gmail, sendgrid, mailtrap) or empty for direct host config",
				Sources: cli.EnvVars("SMTP_PRESET"),
			},
			&cli.StringFlag{
				Name:    "smtp-host",
				Sources: cli.EnvVars("SMTP_HOST"),
			},
			&cli.IntFlag{
				Name:    "smtp-port",
				Sources: cli.EnvVars("SMTP_PORT"),
			},
			&cli.StringFlag{
				Name:    "smtp-username",
				Sources: cli.EnvVars("SMTP_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "smtp-password",
				Sources: cli.EnvVars("SMTP_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "mailtrap-token",
				Sources: cli.EnvVars("MAILTRAP_TOKEN"),
			},
			&cli.BoolFlag{
				Name:    "mailtrap-sandbox",
				Sources: cli.EnvVars("MAILTRAP_SANDBOX"),
			},
			&cli.StringFlag{
				Name:    "mailtrap-inbox-id",
				Sources: cli.EnvVars("MAILTRAP_INBOX_ID"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key; unset runs the heuristic engine only",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Value:   "gpt-4o-mini",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "fleet-snapshot",
				Usage:   "Path to a fleet utilization JSON file; unset uses the built-in demo fleet",
				Sources: cli.EnvVars("FLEET_SNAPSHOT"),
			},
			&cli.StringFlag{
				Name:    "reminder-schedule",
				Usage:   "Cron schedule for the pending-approval reminder sweep",
				Value:   "@hourly",
				Sources: cli.EnvVars("REMINDER_SCHEDULE"),
			},
			&cli.DurationFlag{
				Name:    "reminder-threshold",
				Usage:   "Age after which a pending recommendation triggers a reminder",
				Value:   reminder.DefaultThreshold,
				Sources: cli.EnvVars("REMINDER_THRESHOLD"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing AeroMaint API")

			registry := cmd.NewRegistry(logger)
			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), command.StringSlice("kafka-brokers"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			err := audit.NewLogger(eventBus, logger).Start(ctx)
			if err != nil {
				return err
			}

			adv := cmd.NewAdvisor(registry, logger, command.String("openai-api-key"), command.String("openai-model"))

			transport, err := cmd.NewTransport(registry, command.String("email-provider"), transportConfig(command))
			if err != nil {
				return err
			}

			renderer, err := templates.NewRenderer()
			if err != nil {
				return err
			}

			api := NewAPI(
				logger,
				persistence,
				eventBus,
				adv,
				transport,
				fleetSource(command),
				renderer,
				newTracer(ctx, logger),
			)

			sweeper := reminder.NewSweeper(
				persistence,
				api.NotificationService(),
				command.Duration("reminder-threshold"),
				logger,
			)

			err = sweeper.Start(command.String("reminder-schedule"))
			if err != nil {
				return err
			}
			defer sweeper.Stop()

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

// transportConfig collects the provider settings into the flat map the
// transport factories read. Each factory picks only its own keys.
func transportConfig(command *cli.Command) map[string]any {
	return map[string]any{
		"preset":     command.String("smtp-preset"),
		"host":       command.String("smtp-host"),
		"port":       command.Int("smtp-port"),
		"username":   command.String("smtp-username"),
		"password":   command.String("smtp-password"),
		"api_key":    command.String("smtp-password"),
		"token":      command.String("mailtrap-token"),
		"sandbox":    command.Bool("mailtrap-sandbox"),
		"inbox_id":   command.String("mailtrap-inbox-id"),
		"from_email": command.String("email-from"),
		"from_name":  command.String("email-from-name"),
	}
}

func fleetSource(command *cli.Command) fleet.Source {
	if path := command.String("fleet-snapshot"); path != "" {
		return fleet.NewFileSource(path)
	}

	return fleet.NewDemoSource()
}

// newTracer falls back to a no-op tracer when the OTLP exporter cannot be
// set up, so tracing never blocks startup.
func newTracer(ctx context.Context, logger *slog.Logger) trace.Tracer {
	tracer, err := otelhelper.NewTracer(ctx, "aeromaint-api")
	if err != nil {
		logger.WarnContext(ctx, "Tracing disabled", "error", err)

		return noop.NewTracerProvider().Tracer("aeromaint-api")
	}

	return tracer
}
