package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-announcer/internal/models"
)

type viewerCreator interface {
	CreateViewer(ctx context.Context, viewer *models.Viewer) error
}

// NewCreateViewerCmd creates the command that registers a viewer who can start sessions.
func NewCreateViewerCmd(client viewerCreator) *cobra.Command {
	if client == nil {
		panic("NewCreateViewerCmd: client dependency cannot be nil")
	}

	var (
		nameFlag     string
		roleFlag     string
		passwordFlag string
	)

	createCmd := &cobra.Command{
		Use:   "create-viewer <viewer-id>",
		Short: "Register a viewer with a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.ViewerRole(strings.ToUpper(strings.TrimSpace(roleFlag)))
			switch role {
			case models.ViewerRoleStudent, models.ViewerRoleTeacher, models.ViewerRoleAdmin:
			default:
				return fmt.Errorf("create-viewer: unknown role %q", roleFlag)
			}
			if passwordFlag == "" {
				return errors.New("create-viewer: --password is required")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(passwordFlag), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("create-viewer: hash password: %w", err)
			}

			viewer := &models.Viewer{
				ID:           args[0],
				FullName:     nameFlag,
				Role:         role,
				PasswordHash: string(hash),
				Active:       true,
			}
			if viewer.FullName == "" {
				viewer.FullName = viewer.ID
			}
			if err := client.CreateViewer(cmd.Context(), viewer); err != nil {
				return fmt.Errorf("create-viewer: %w", err)
			}

			cmd.Printf("viewer %s created with role %s\n", viewer.ID, viewer.Role)
			return nil
		},
	}

	createCmd.Flags().StringVar(&nameFlag, "name", "", "Display name (default: the viewer id)")
	createCmd.Flags().StringVar(&roleFlag, "role", string(models.ViewerRoleStudent), "STUDENT, TEACHER or ADMIN")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Initial password")

	return createCmd
}
