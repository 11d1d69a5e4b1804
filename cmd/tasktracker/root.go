package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the task tracker CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasktracker",
		Short: "Multi-user task tracking API",
		Long: `tasktracker serves a JSON API where users register, log in and
manage their own tasks. Configuration is read from config/config.yaml
and can be overridden with environment variables.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
