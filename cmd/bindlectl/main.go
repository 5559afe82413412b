package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "bindlectl",
		Short: "CLI client for the Bindle bookmark REST API",
	}
)

// client builds a resty client scoped to the configured service base URL.
func client() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
}

// printBody writes the raw response body and surfaces non-2xx statuses
// as errors so scripts can rely on the exit code.
func printBody(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(os.Stdout, resp.String())
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Bindle service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Username owning the bookmarks (required)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
