package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
	"spry/internal/format"
)

func newDashboardCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show velocity, burndown and team metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("window") {
				query.Set("window", strconv.Itoa(window))
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Dashboard(cmd.Context(), query)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeDashboard(resp)
			})
		},
	}

	cmd.Flags().IntVar(&window, "window", 0, "number of sprints to include")
	return cmd
}

func writeDashboard(resp api.DashboardResponse) error {
	_ = writePlain("velocity (last %d sprints)\n", resp.Window)
	rows := make([][]string, 0, len(resp.VelocityHistory))
	for _, point := range resp.VelocityHistory {
		rows = append(rows, []string{
			point.SprintID,
			fmt.Sprintf("%g", point.PlannedPoints),
			fmt.Sprintf("%g", point.CompletedPoints),
			point.Basis,
			formatDay(point.Date),
		})
	}
	if err := format.Table(os.Stdout, []string{"SPRINT", "PLANNED", "COMPLETED", "BASIS", "ENDED"}, rows); err != nil {
		return err
	}

	if resp.BurndownSprint != "" {
		_ = writePlain("\nburndown for %s\n", resp.BurndownSprint)
		rows = rows[:0]
		for _, point := range resp.Burndown {
			actual := "-"
			if point.Actual != nil {
				actual = fmt.Sprintf("%g", *point.Actual)
			}
			rows = append(rows, []string{
				formatDay(point.Date),
				fmt.Sprintf("%.1f", point.Ideal),
				actual,
			})
		}
		if err := format.Table(os.Stdout, []string{"DAY", "IDEAL", "ACTUAL"}, rows); err != nil {
			return err
		}
	}

	_ = writePlain("\nteam\n")
	_ = writePlain("  average_velocity: %.1f\n", resp.Team.AverageVelocity)
	_ = writePlain("  predictability: %.0f%%\n", resp.Team.Predictability)
	_ = writePlain("  throughput: %.1f tasks/sprint\n", resp.Team.Throughput)
	_ = writePlain("  cycle_time: %.1f days\n", resp.Team.CycleTimeDays)
	_ = writePlain("  lead_time: %.1f days\n", resp.Team.LeadTimeDays)
	_ = writePlain("  defect_rate: %.0f%%\n", resp.Team.DefectRate*100)
	return nil
}
