package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var filter string
	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search across memories, documents, tasks and activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"query":  args[0],
				"filter": filter,
			}
			data, err := doPostJSON("/api/search", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&filter, "filter", "f", "all", "Result kind: all, memory, document, task, activity")
	rootCmd.AddCommand(searchCmd)
}
