package main

import (
	"net/url"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newSnapshotCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture and list daily board snapshots",
	}
	cmd.AddCommand(
		newSnapshotCaptureCmd(cfg, jsonOutput),
		newSnapshotListCmd(cfg, jsonOutput),
	)
	return cmd
}

func newSnapshotCaptureCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a snapshot of the current board state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.CaptureSnapshot(cmd.Context(), api.SnapshotCaptureRequest{Day: day})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				verb := "captured"
				if resp.Replaced {
					verb = "replaced"
				}
				return writePlain("%s snapshot for %s (%d tasks, %g points remaining)\n",
					verb, formatDay(resp.Day), resp.TotalTasks(), resp.RemainingPoints)
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "snapshot day (YYYY-MM-DD, default today)")
	return cmd
}

func newSnapshotListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			setIfNotEmpty(query, "from", from)
			setIfNotEmpty(query, "to", to)

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListSnapshots(cmd.Context(), query)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeSnapshotList(resp)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	return cmd
}
