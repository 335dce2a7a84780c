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

func newMetricsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show individual metric series",
	}
	cmd.PersistentFlags().IntVar(&window, "window", 0, "number of sprints to include")

	for _, sub := range []struct {
		use, short string
		render     func(api.DashboardResponse) error
	}{
		{"velocity", "Show velocity history", renderVelocity},
		{"burndown", "Show the active sprint burndown", renderBurndown},
		{"cfd", "Show the cumulative flow diagram", renderFlow},
		{"team", "Show team delivery metrics", renderTeam},
	} {
		render := sub.render
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				query := url.Values{}
				if window > 0 {
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
					return render(resp)
				})
			},
		})
	}
	return cmd
}

func renderVelocity(resp api.DashboardResponse) error {
	rows := make([][]string, 0, len(resp.VelocityHistory))
	for _, point := range resp.VelocityHistory {
		rows = append(rows, []string{
			point.SprintID,
			point.SprintName,
			fmt.Sprintf("%g", point.PlannedPoints),
			fmt.Sprintf("%g", point.CompletedPoints),
			point.Basis,
			formatDay(point.Date),
		})
	}
	return format.Table(os.Stdout, []string{"SPRINT", "NAME", "PLANNED", "COMPLETED", "BASIS", "ENDED"}, rows)
}

func renderBurndown(resp api.DashboardResponse) error {
	if resp.BurndownSprint == "" {
		return writePlain("no sprint to burn down\n")
	}
	_ = writePlain("sprint: %s\n", resp.BurndownSprint)
	rows := make([][]string, 0, len(resp.Burndown))
	for _, point := range resp.Burndown {
		actual := "-"
		if point.Actual != nil {
			actual = fmt.Sprintf("%g", *point.Actual)
		}
		rows = append(rows, []string{formatDay(point.Date), fmt.Sprintf("%.1f", point.Ideal), actual})
	}
	return format.Table(os.Stdout, []string{"DAY", "IDEAL", "ACTUAL"}, rows)
}

func renderFlow(resp api.DashboardResponse) error {
	rows := make([][]string, 0, len(resp.CumulativeFlow))
	for _, point := range resp.CumulativeFlow {
		rows = append(rows, []string{
			formatDay(point.Date),
			intToString(point.Done),
			intToString(point.Review),
			intToString(point.InProgress),
			intToString(point.Todo),
		})
	}
	return format.Table(os.Stdout, []string{"DAY", "DONE", "+REVIEW", "+IN PROGRESS", "+TODO"}, rows)
}

func renderTeam(resp api.DashboardResponse) error {
	_ = writePlain("average_velocity: %.1f\n", resp.Team.AverageVelocity)
	_ = writePlain("predictability: %.0f%%\n", resp.Team.Predictability)
	_ = writePlain("throughput: %.1f tasks/sprint\n", resp.Team.Throughput)
	_ = writePlain("cycle_time: %.1f days\n", resp.Team.CycleTimeDays)
	_ = writePlain("lead_time: %.1f days\n", resp.Team.LeadTimeDays)
	return writePlain("defect_rate: %.0f%%\n", resp.Team.DefectRate*100)
}
