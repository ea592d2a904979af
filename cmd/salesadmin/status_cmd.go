package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var uploadRaw string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an import session's state and counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			uploadID, err := uuid.Parse(uploadRaw)
			if err != nil {
				return withCode(exitUsage, fmt.Errorf("invalid --upload: %w", err))
			}

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			svc, err := buildImportService()
			if err != nil {
				return withCode(exitUsage, err)
			}
			ctx := cliContext(cmd.Context(), pool, uuid.Nil)

			sess, err := svc.GetSession(ctx, uploadID)
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(cmd.OutOrStdout(), map[string]any{
				"upload_id":      sess.ID(),
				"file_name":      sess.FileName(),
				"template":       sess.TemplateID(),
				"status":         sess.Status(),
				"total_rows":     sess.TotalRows(),
				"processed_rows": sess.ProcessedRows(),
				"failed_rows":    sess.FailedRows(),
				"errors":         sess.RowErrors(),
				"created_at":     sess.CreatedAt(),
				"completed_at":   sess.CompletedAt(),
			})
		},
	}

	cmd.Flags().StringVar(&uploadRaw, "upload", "", "import session id (uuid, required)")
	return cmd
}
