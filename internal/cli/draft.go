package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the draft cursor, counts and auto-draft state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Draft
			if err := client.Get("/api/v1/draft", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Show every team's roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Teams
			if err := client.Get("/api/v1/teams", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <player-id>",
		Short: "Draft a player for the team on the clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Pick
			req := request.PickRequest{PlayerID: model.PlayerID(args[0])}
			if err := client.Post("/api/v1/draft/picks", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent pick",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Undo
			if err := client.Delete("/api/v1/draft/picks/last", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Return every drafted player to the pool, keeping keepers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Draft
			if err := client.Post("/api/v1/draft/restart", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newNewDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start over, clearing picks, keepers and player flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Draft
			if err := client.Post("/api/v1/draft/new", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
