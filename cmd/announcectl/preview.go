package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-announcer/internal/models"
)

// PreviewRequest identifies whose delivery cycle to simulate.
type PreviewRequest struct {
	ViewerID    string
	SessionID   string
	ClassroomID string
}

type previewer interface {
	Preview(ctx context.Context, req PreviewRequest) ([]models.Announcement, error)
}

// NewPreviewCmd creates the dry-run command. It shows what entering a classroom
// would present without touching either seen registry.
func NewPreviewCmd(client previewer) *cobra.Command {
	if client == nil {
		panic("NewPreviewCmd: client dependency cannot be nil")
	}

	var req PreviewRequest

	previewCmd := &cobra.Command{
		Use:   "preview <classroom-id>",
		Short: "Show which announcements a viewer would get on entering a classroom",
		Long: `Show which announcements a viewer would get on entering a classroom.

Seen state is read from the permanent registry of --viewer and, when --session
is given, from that session's registry. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ClassroomID = args[0]
			if req.ViewerID == "" {
				return errors.New("preview: --viewer is required")
			}

			items, err := client.Preview(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			if len(items) == 0 {
				cmd.Println("nothing new to show")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tTYPE\tMODE\tTITLE")
			for i, item := range items {
				mode := models.DisplayModeAlways
				if item.ShowOnce() {
					mode = models.DisplayModeOnce
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, item.ID, item.EffectiveType(), mode, item.Title)
			}
			return w.Flush()
		},
	}

	previewCmd.Flags().StringVar(&req.ViewerID, "viewer", "", "Viewer whose permanent registry is consulted")
	previewCmd.Flags().StringVar(&req.SessionID, "session", "", "Session whose registry is consulted (default: a new session)")

	return previewCmd
}
