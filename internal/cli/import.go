package cli

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/draftboard/internal/api/response"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the player pool from a JSON rankings file or an HTML rankings page",
		Long: `Upload rankings to the server. Files ending in .html or .htm are sent as
HTML and parsed from the first rankings table; anything else is sent as a
JSON array of {name, position, team, rank, tier} rows.

Importing resets the draft to pick 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			contentType := "application/json"
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".html", ".htm":
				contentType = "text/html"
			}

			var result response.Import
			if err := client.DoRaw(http.MethodPost, "/api/v1/import", contentType, f, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
