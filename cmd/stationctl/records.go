package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newListCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List station records",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(*serverURL + "/stations")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("list failed: %s", resp.Status)
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

func newAddCmd(serverURL *string) *cobra.Command {
	var (
		name        string
		address     string
		description string
		lat         float64
		lng         float64
		imagePaths  []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a station record at the given coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			images := make([]string, 0, len(imagePaths))
			for _, p := range imagePaths {
				b, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				images = append(images, base64.StdEncoding.EncodeToString(b))
			}

			payload := map[string]any{
				"name":        name,
				"address":     address,
				"description": description,
				"lat":         lat,
				"lng":         lng,
				"images":      images,
			}
			b, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			resp, err := http.Post(*serverURL+"/stations", "application/json", bytes.NewReader(b))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("add failed: %s", resp.Status)
			}
			var created map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %v\n", created["id"])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Station name (required)")
	cmd.Flags().StringVar(&address, "address", "", "Station address (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (auto-captioned when empty)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().StringSliceVar(&imagePaths, "image", nil, "Image file to attach (repeatable, max 4)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lng")
	return cmd
}

func newDeleteCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a station record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := *serverURL + "/stations?id=" + url.QueryEscape(args[0])
			req, err := http.NewRequest(http.MethodDelete, u, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("delete failed: %s", resp.Status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func newExportCmd(serverURL *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(*serverURL + "/export.csv")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("export failed: %s", resp.Status)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			_, err = io.Copy(w, resp.Body)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return cmd
}
