package main

import (
	"github.com/spf13/cobra"
)

type cliBackend interface {
	migrator
	previewer
	viewerCreator
}

// NewRootCmd assembles the announcectl command tree around one backend.
func NewRootCmd(b cliBackend) *cobra.Command {
	if b == nil {
		panic("NewRootCmd: backend dependency cannot be nil")
	}

	root := &cobra.Command{
		Use:   "announcectl",
		Short: "Administer the classroom announcement service",
		Long: `Administer the classroom announcement service.

Database and Redis settings come from the same environment variables and
.env file as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(NewMigrateCmd(b))
	root.AddCommand(NewPreviewCmd(b))
	root.AddCommand(NewCreateViewerCmd(b))
	return root
}
