package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/capprobe/internal/httpapi"
)

func newHealthCommand() *cobra.Command {
	var (
		api    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the latest report served by a running API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimRight(api, "/") + "/health"
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("contacting API: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("API returned status: %s", resp.Status)
			}

			var body httpapi.HealthBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode health: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), body)
			}
			renderBody(cmd.OutOrStdout(), body, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&api, "api", apiBase(), "API base URL (API_BASE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func apiBase() string {
	if api := os.Getenv("API_BASE"); api != "" {
		return api
	}
	return "http://localhost:8080"
}
