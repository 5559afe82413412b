package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var current []string
	completeCmd := &cobra.Command{
		Use:   "complete PREFIX",
		Short: "Suggest tags matching a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			resp, err := client().R().
				SetQueryParam("tag", args[0]).
				SetQueryParam("current", strings.Join(current, " ")).
				Get(fmt.Sprintf("/api/v1/%s/tags/complete", userFlag))
			return printBody(resp, err)
		},
	}
	completeCmd.Flags().StringSliceVarP(&current, "current", "c", nil, "Tags already chosen; suggestions must co-occur with all of them")
	rootCmd.AddCommand(completeCmd)
}
