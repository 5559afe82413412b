package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	// add
	var description, extended, tags, insertedBy string
	addCmd := &cobra.Command{
		Use:   "add URL",
		Short: "Store or update a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{
				"url":         args[0],
				"description": description,
				"extended":    extended,
				"tags":        tags,
				"inserted_by": insertedBy,
			}
			resp, err := client().R().
				SetBody(payload).
				Post(fmt.Sprintf("/api/v1/%s/bmark", userFlag))
			return printBody(resp, err)
		},
	}
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	addCmd.Flags().StringVarP(&extended, "extended", "e", "", "Extended notes")
	addCmd.Flags().StringVarP(&tags, "tags", "t", "", "Space-separated tags")
	addCmd.Flags().StringVar(&insertedBy, "inserted-by", "bindlectl", "Client identifier recorded with the bookmark")
	rootCmd.AddCommand(addCmd)

	// get
	var withContent bool
	getCmd := &cobra.Command{
		Use:   "get HASH",
		Short: "Fetch a bookmark by its URL hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			req := client().R()
			if withContent {
				req.SetQueryParam("with_content", "true")
			}
			resp, err := req.Get(fmt.Sprintf("/api/v1/%s/bmark/%s", userFlag, args[0]))
			return printBody(resp, err)
		},
	}
	getCmd.Flags().BoolVar(&withContent, "with-content", false, "Include cached readable content")
	rootCmd.AddCommand(getCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete HASH",
		Short: "Delete a bookmark by its URL hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			resp, err := client().R().
				Delete(fmt.Sprintf("/api/v1/%s/bmark/%s", userFlag, args[0]))
			return printBody(resp, err)
		},
	}
	rootCmd.AddCommand(deleteCmd)

	// recent
	var limit, offset int
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List bookmarks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			resp, err := client().R().
				SetQueryParam("limit", fmt.Sprint(limit)).
				SetQueryParam("offset", fmt.Sprint(offset)).
				Get(fmt.Sprintf("/api/v1/%s/bmarks", userFlag))
			return printBody(resp, err)
		},
	}
	recentCmd.Flags().IntVarP(&limit, "limit", "l", 50, "Page size")
	recentCmd.Flags().IntVarP(&offset, "offset", "o", 0, "Page offset")
	rootCmd.AddCommand(recentCmd)

	// search
	var substring bool
	searchCmd := &cobra.Command{
		Use:   "search TERMS",
		Short: "Full-text search over bookmarks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			terms := url.PathEscape(strings.Join(args, " "))
			req := client().R()
			if substring {
				req.SetQueryParam("substring", "true")
			}
			resp, err := req.Get(fmt.Sprintf("/api/v1/%s/bmarks/search/%s", userFlag, terms))
			return printBody(resp, err)
		},
	}
	searchCmd.Flags().BoolVar(&substring, "substring", false, "Substring filter over description/URL instead of full-text search")
	rootCmd.AddCommand(searchCmd)
}
