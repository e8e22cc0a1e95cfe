package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/internal/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.ServerAddr()
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(api.Dependencies{
				Volunteers:   app.Volunteers,
				Events:       app.Events,
				Plannings:    app.Plannings,
				Workflows:    app.Workflows,
				Integrations: app.Integrations,
				Health:       app.Database,
			}, app.Logger)

			app.Logger.Debug("serve command", zap.String("addr", addr))
			return server.Run(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr from the config file)")

	return cmd
}
