package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ozymandias/internal/app"
)

func initCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the knowledge base and print a greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.logger.Info("Starting init command")

			ws, err := app.NewWorkspace(o.appConfig())
			if err != nil {
				return err
			}
			report, err := ws.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			o.logger.Debug("knowledge base ready",
				zap.String("home", report.Home),
				zap.String("backend", report.Backend),
				zap.String("storage", report.StoragePath),
				zap.Bool("created_home", report.CreatedHome),
				zap.Bool("created_config", report.CreatedConfig),
			)

			fmt.Fprintln(cmd.OutOrStdout(), "Hello World")
			o.logger.Info("Completed init command")
			return nil
		},
	}
}
