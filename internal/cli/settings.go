package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/model"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "League settings commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show league settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Settings
			if err := client.Get("/api/v1/settings", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <file>",
		Short: "Replace league settings from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := readSettings(args[0])
			if err != nil {
				return err
			}

			var result model.Settings
			if err := client.Put("/api/v1/settings", settings, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

// readSettings parses a settings file. YAML is a superset of JSON, but JSON
// is tried first so its field names match the API exactly.
func readSettings(path string) (model.Settings, error) {
	var settings model.Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err == nil {
		return settings, nil
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse %s: %w", path, err)
	}
	return settings, nil
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the draft strategies automated teams can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Strategies
			if err := client.Get("/api/v1/strategies", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
