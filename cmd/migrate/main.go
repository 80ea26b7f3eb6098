package main

import (
	"fmt"
	"log"
	"os"

	"go-leave/internal/app"
	"go-leave/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func gooseCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, use)
		},
	}
}

func run(cmd *cobra.Command, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if err := app.RunMigrate(cmd.Context(), cfg, command); err != nil {
		logger.Error("migrate failed", zap.String("command", command), zap.Error(err))
		return err
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the leave service database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		gooseCommand("up", "Apply all pending migrations"),
		gooseCommand("down", "Roll back the latest migration"),
		gooseCommand("status", "Print the status of every migration"),
		gooseCommand("redo", "Roll back and re-apply the latest migration"),
		gooseCommand("seed", "Replace all accounts and requests with the demo data set"),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
