package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

func newAutoDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autodraft",
		Short: "Show or change auto-draft state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AutoDraft
			if err := client.Get("/api/v1/autodraft", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.AddCommand(newAutoDraftToggleCmd("on", true))
	cmd.AddCommand(newAutoDraftToggleCmd("off", false))

	return cmd
}

func newAutoDraftToggleCmd(use string, enabled bool) *cobra.Command {
	var (
		speed  string
		single bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: "Turn auto-drafting " + use,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AutoDraftRequest{Enabled: &enabled}
			if speed != "" {
				s := model.AutoDraftSpeed(speed)
				req.Speed = &s
			}
			if cmd.Flags().Changed("single") {
				continuous := !single
				req.Continuous = &continuous
			}

			var result response.AutoDraft
			if err := client.Put("/api/v1/autodraft", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	if enabled {
		cmd.Flags().StringVar(&speed, "speed", "", "Delay before each automated pick: instant, fast, normal, slow")
		cmd.Flags().BoolVar(&single, "single", false, "Make one automated pick per trigger instead of running until a manual team is up")
	}

	return cmd
}
