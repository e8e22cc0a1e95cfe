package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/cmd/cli/commands"
	"github.com/jakechorley/event-planner/internal/config"
	"github.com/jakechorley/event-planner/pkg/clients/gmailclient"
	"github.com/jakechorley/event-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/postgres"
	"github.com/jakechorley/event-planner/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Event Planner CLI - Plan event shifts and run communication campaigns",
		Long:  `A CLI tool for rostering volunteers onto event shifts and driving each event's communication workflow.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVar(&app.OrgID, "org", os.Getenv("EVENT_PLANNER_ORG"), "Organisation id")
	rootCmd.PersistentFlags().StringVar(&app.OrgSlug, "org-slug", "", "Organisation slug")

	rootCmd.AddCommand(commands.ServeCmd(app))

	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.AddVolunteerCmd(app))
	rootCmd.AddCommand(commands.FavoriteVolunteerCmd(app))
	rootCmd.AddCommand(commands.ImportVolunteersCmd(app))

	rootCmd.AddCommand(commands.ListEventsCmd(app))
	rootCmd.AddCommand(commands.CreateEventCmd(app))
	rootCmd.AddCommand(commands.DeleteEventCmd(app))
	rootCmd.AddCommand(commands.TicketingCmd(app))

	rootCmd.AddCommand(commands.ShowGridCmd(app))
	rootCmd.AddCommand(commands.AddToRosterCmd(app))
	rootCmd.AddCommand(commands.RemoveFromRosterCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.UnassignCmd(app))
	rootCmd.AddCommand(commands.ExportCSVCmd(app))
	rootCmd.AddCommand(commands.PublishPlanningCmd(app))
	rootCmd.AddCommand(commands.EmailShiftsCmd(app))

	rootCmd.AddCommand(commands.ShowWorkflowCmd(app))
	rootCmd.AddCommand(commands.AdvancePhaseCmd(app))
	rootCmd.AddCommand(commands.NextStepCmd(app))
	rootCmd.AddCommand(commands.PrevStepCmd(app))
	rootCmd.AddCommand(commands.SelectStepCmd(app))
	rootCmd.AddCommand(commands.SelectPhaseCmd(app))
	rootCmd.AddCommand(commands.SetManualCmd(app))
	rootCmd.AddCommand(commands.SetOverrideCmd(app))
	rootCmd.AddCommand(commands.SetShotgunURLCmd(app))
	rootCmd.AddCommand(commands.AddPostCmd(app))
	rootCmd.AddCommand(commands.DeletePostCmd(app))
	rootCmd.AddCommand(commands.PublishPostCmd(app))
	rootCmd.AddCommand(commands.ProgressCmd(app))
	rootCmd.AddCommand(commands.RecentMediaCmd(app))

	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, clients and services
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	settings, err := buildSettings(app.Cfg)
	if err != nil {
		return err
	}

	// Connect to the database
	if app.Cfg.Secrets.DatabaseURL == "" {
		return errors.New("EVENT_PLANNER_DATABASE_URL is not set")
	}
	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.Secrets.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database initialized successfully")

	// Initialize services
	app.Queue = serialq.New()
	app.Volunteers = services.NewVolunteerService(app.Database, app.Queue, app.Logger)
	app.Events = services.NewEventService(app.Database, app.Logger, settings)
	app.Plannings = services.NewPlanningService(app.Database, app.Queue, app.Logger, settings)
	app.Workflows = services.NewWorkflowService(app.Database, app.Queue, app.Logger, settings)

	app.Integrations = &services.Integrations{
		Events:          app.Events,
		Plannings:       app.Plannings,
		Workflows:       app.Workflows,
		Volunteers:      app.Volunteers,
		PlanningSheetID: app.Cfg.PlanningSheetID,
		Logger:          app.Logger,
	}

	return initClients(app.Cfg, app.Integrations)
}

// initClients connects the integrations that are configured. Unconfigured ones are
// left nil so their operations report integration.ErrNotConfigured.
func initClients(cfg *config.Config, integrations *services.Integrations) error {
	if cfg.PlanningSheetID != "" || cfg.GmailSender != "" {
		// Load OAuth client configuration
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		// Initialize sheets client; it runs the OAuth flow and its token is shared with gmail
		app.Logger.Info("Initializing sheets client")
		sheetsClient, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		if cfg.PlanningSheetID != "" {
			integrations.Publisher = sheetsClient
			integrations.SheetReader = sheetsClient
		}
		app.Logger.Debug("Sheets client initialized successfully")

		if cfg.GmailSender != "" {
			app.Logger.Info("Initializing gmail client")
			gmailClient, err := gmailclient.NewClient(app.Ctx, oauthCfg, sheetsClient.Token(), cfg.GmailUserID, cfg.GmailSender)
			if err != nil {
				return fmt.Errorf("failed to create gmail client: %w", err)
			}
			integrations.Mailer = gmailClient
			app.Logger.Debug("Gmail client initialized successfully")
		}
	}

	if cfg.Ticketing.BaseURL != "" {
		app.Logger.Info("Initializing ticketing client")
		ticketingClient, err := ticketingclient.NewClient(app.Ctx, cfg.Ticketing.BaseURL, cfg.Secrets.TicketingToken)
		if err != nil {
			return fmt.Errorf("failed to create ticketing client: %w", err)
		}
		integrations.Ticketing = ticketingClient
	}

	if cfg.Social.BaseURL != "" {
		app.Logger.Info("Initializing social client")
		socialClient, err := socialclient.NewClient(app.Ctx, cfg.Social.BaseURL, cfg.Social.AccountID, cfg.Secrets.SocialToken)
		if err != nil {
			return fmt.Errorf("failed to create social client: %w", err)
		}
		integrations.Social = socialClient
	}

	return nil
}

// buildSettings converts the configuration into service settings
func buildSettings(cfg *config.Config) (services.Settings, error) {
	overrides, err := cfg.EndTimeOverrides()
	if err != nil {
		return services.Settings{}, err
	}
	return services.Settings{
		Location:         cfg.Location(),
		DefaultEndTime:   cfg.DefaultEndTime,
		EndTimeOverrides: overrides,
	}, nil
}

// closeApp stops background work and releases the database connection
func closeApp() {
	if app.Queue != nil {
		app.Queue.Close()
	}
	if app.Database != nil {
		app.Database.Close()
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
