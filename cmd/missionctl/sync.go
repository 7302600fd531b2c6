package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger a Supabase metrics sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/metrics/sync", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(syncCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the latest synced metrics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/metrics/summary", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(summaryCmd)
}
