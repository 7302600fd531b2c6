package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	tasksCmd := &cobra.Command{Use: "tasks", Short: "Task operations"}

	// list
	var start, end string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if start != "" {
				query["start"] = start
			}
			if end != "" {
				query["end"] = end
			}
			data, err := doGet("/api/tasks", query)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&start, "start", "s", "", "Range start (RFC 3339)")
	listCmd.Flags().StringVarP(&end, "end", "e", "", "Range end (RFC 3339)")
	tasksCmd.AddCommand(listCmd)

	// create
	var title, description, scheduledAt, priority string
	var duration int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" || scheduledAt == "" {
				return fmt.Errorf("--title and --at required")
			}
			payload := map[string]interface{}{
				"title":       title,
				"scheduledAt": scheduledAt,
				"priority":    priority,
			}
			if description != "" {
				payload["description"] = description
			}
			if duration > 0 {
				payload["duration"] = duration
			}
			data, err := doPostJSON("/api/tasks", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Task title (required)")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	createCmd.Flags().StringVar(&scheduledAt, "at", "", "Scheduled time (RFC 3339, required)")
	createCmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	createCmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (low|medium|high)")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("at")
	tasksCmd.AddCommand(createCmd)

	// complete
	completeCmd := &cobra.Command{
		Use:   "complete TASK_ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("/api/tasks/%s/complete", args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	tasksCmd.AddCommand(completeCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete(fmt.Sprintf("/api/tasks/%s", args[0])); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	tasksCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(tasksCmd)
}
