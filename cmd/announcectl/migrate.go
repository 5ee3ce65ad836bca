package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// NewMigrateCmd creates the schema migration command.
func NewMigrateCmd(client migrator) *cobra.Command {
	if client == nil {
		panic("NewMigrateCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the announcement tables",
		Long: `Create the announcements, viewers and viewer_storage tables if they are missing.

Running it against an up to date database is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			cmd.Println("schema is up to date")
			return nil
		},
	}
}
