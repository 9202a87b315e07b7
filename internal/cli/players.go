package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/request"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

func newPlayersCmd() *cobra.Command {
	var (
		status   string
		position string
		watched  bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List players by rank",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if status != "" {
				q.Set("status", status)
			}
			if position != "" {
				q.Set("position", position)
			}
			if watched {
				q.Set("watched", "true")
			}
			path := "/api/v1/players"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result response.Players
			if err := client.Get(path, &result); err != nil {
				return err
			}
			if limit > 0 && len(result.Players) > limit {
				result.Players = result.Players[:limit]
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "available", "Filter by status: available, drafted, keeper (empty for all)")
	cmd.Flags().StringVar(&position, "position", "", "Filter by position")
	cmd.Flags().BoolVar(&watched, "watched", false, "Only watched players")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n players")

	return cmd
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <player-id>",
		Short: "Show one player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Player
			if err := client.Get("/api/v1/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})
	cmd.AddCommand(newFlagCmd("watch", "Add a player to the watch list", func(r *request.FlagRequest) { r.Watched = boolPtr(true) }))
	cmd.AddCommand(newFlagCmd("unwatch", "Remove a player from the watch list", func(r *request.FlagRequest) { r.Watched = boolPtr(false) }))
	cmd.AddCommand(newFlagCmd("avoid", "Mark a player as avoided", func(r *request.FlagRequest) { r.Avoided = boolPtr(true) }))
	cmd.AddCommand(newFlagCmd("unavoid", "Clear a player's avoided mark", func(r *request.FlagRequest) { r.Avoided = boolPtr(false) }))

	return cmd
}

func newFlagCmd(use, short string, set func(*request.FlagRequest)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <player-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.FlagRequest
			set(&req)

			var result model.Player
			if err := client.Patch("/api/v1/players/"+url.PathEscape(args[0]), req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
