package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{Use: "sync", Short: "Extension sync operations"}

	var since string
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List the hashes of every stored bookmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			req := client().R()
			if since != "" {
				req.SetQueryParam("since", since)
			}
			resp, err := req.Get(fmt.Sprintf("/api/v1/%s/extension/sync", userFlag))
			return printBody(resp, err)
		},
	}
	snapshotCmd.Flags().StringVar(&since, "since", "", "Only hashes stored at or after this RFC3339 time")
	syncCmd.AddCommand(snapshotCmd)

	diffCmd := &cobra.Command{
		Use:   "diff HASH...",
		Short: "Diff a local hash list against the server snapshot",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{"hash_list": args}
			resp, err := client().R().
				SetBody(payload).
				Post(fmt.Sprintf("/api/v1/%s/extension/sync/diff", userFlag))
			return printBody(resp, err)
		},
	}
	syncCmd.AddCommand(diffCmd)

	rootCmd.AddCommand(syncCmd)
}
