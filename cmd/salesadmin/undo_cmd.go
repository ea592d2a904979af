package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	var (
		uploadRaw string
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Delete everything a completed import created",
		RunE: func(cmd *cobra.Command, args []string) error {
			uploadID, err := uuid.Parse(uploadRaw)
			if err != nil {
				return withCode(exitUsage, fmt.Errorf("invalid --upload: %w", err))
			}
			if !yes {
				return withCode(exitSafetyNet, fmt.Errorf("undo deletes imported data; re-run with --yes to confirm"))
			}
			return runUndo(cmd.Context(), cmd.OutOrStdout(), uploadID)
		},
	}

	cmd.Flags().StringVar(&uploadRaw, "upload", "", "import session id (uuid, required)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func runUndo(ctx context.Context, out io.Writer, uploadID uuid.UUID) error {
	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	svc, err := buildImportService()
	if err != nil {
		return withCode(exitUsage, err)
	}
	ctx = cliContext(ctx, pool, uuid.Nil)

	if err := svc.Undo(ctx, uploadID); err != nil {
		return withCode(exitValidation, err)
	}
	return writeJSONLine(out, map[string]any{
		"upload_id": uploadID,
		"status":    "reversed",
	})
}
