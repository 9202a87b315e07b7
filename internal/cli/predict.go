package cli

import (
	"cmp"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
)

func newPredictCmd() *cobra.Command {
	var (
		teamID int
		trials int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate which players will still be available at your next pick",
		RunE: func(cmd *cobra.Command, args []string) error {
			var prediction response.Prediction
			req := request.PredictRequest{MyTeamID: teamID, Trials: trials}
			if err := client.Post("/api/v1/predictions", req, &prediction); err != nil {
				return err
			}

			var players response.Players
			if err := client.Get("/api/v1/players?status=available", &players); err != nil {
				return err
			}

			rows := make([]Availability, 0, len(players.Players))
			for _, p := range players.Players {
				prob, ok := prediction.Probabilities[p.ID]
				if !ok {
					continue
				}
				rows = append(rows, Availability{Player: p, Probability: prob})
			}
			slices.SortStableFunc(rows, func(a, b Availability) int {
				return cmp.Compare(a.Player.Rank, b.Player.Rank)
			})
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			output(cmd).Print(rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 1, "Your team id")
	cmd.Flags().IntVar(&trials, "trials", 0, "Simulated drafts to run (server default when 0)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Show at most n players")

	return cmd
}
