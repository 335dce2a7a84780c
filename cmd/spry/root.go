package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spry/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "spry",
		Short: "Spry is a lightweight agile board for tasks, sprints and metrics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newInfoCmd(cfg, &jsonOutput),
		newTaskCmd(cfg, &jsonOutput),
		newStoryCmd(cfg, &jsonOutput),
		newSprintCmd(cfg, &jsonOutput),
		newEpicCmd(cfg, &jsonOutput),
		newBoardCmd(cfg, &jsonOutput),
		newDashboardCmd(cfg, &jsonOutput),
		newMetricsCmd(cfg, &jsonOutput),
		newSnapshotCmd(cfg, &jsonOutput),
		newPlanCmd(cfg, &jsonOutput),
		newLoginCmd(cfg, &jsonOutput),
		newAdminCmd(cfg, &jsonOutput),
		newConfigCmd(cfg),
	)

	return cmd
}
