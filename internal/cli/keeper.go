package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

func newKeeperCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keeper",
		Short: "Keeper commands",
	}

	cmd.AddCommand(newKeeperAddCmd())
	cmd.AddCommand(newKeeperRemoveCmd())
	cmd.AddCommand(newKeeperListCmd())

	return cmd
}

func newKeeperAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <player-id> <team-id> <round>",
		Short: "Reserve a team's pick in a round for a player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid team id: %s", args[1])
			}
			round, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid round: %s", args[2])
			}

			var result model.Player
			req := request.KeeperRequest{PlayerID: model.PlayerID(args[0]), TeamID: teamID, Round: round}
			if err := client.Post("/api/v1/keepers", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newKeeperRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <player-id>",
		Aliases: []string{"remove"},
		Short:   "Return a keeper to the player pool",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Player
			if err := client.Delete("/api/v1/keepers/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newKeeperListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List keepers in pick order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Players
			if err := client.Get("/api/v1/keepers", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
