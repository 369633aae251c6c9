package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newSettingsCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Read or update settings"}
	cmd.AddCommand(newSettingsGetCmd(serverURL))
	cmd.AddCommand(newSettingsSetCmd(serverURL))
	return cmd
}

func newSettingsGetCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(*serverURL + "/settings")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("settings get failed: %s", resp.Status)
			}
			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
}

func newSettingsSetCmd(serverURL *string) *cobra.Command {
	var (
		mapKey     string
		webhookURL string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace settings (an empty map key switches to the open-tile backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"map_key":     mapKey,
				"webhook_url": webhookURL,
			}
			b, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPut, *serverURL+"/settings", bytes.NewReader(b))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("settings set failed: %s", resp.Status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&mapKey, "map-key", "", "Commercial map provider key")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "Webhook endpoint for record sync")
	return cmd
}
