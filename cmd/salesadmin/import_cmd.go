package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ventia/salesadmin/modules/imports/services"
)

type importOptions struct {
	actorID     uuid.UUID
	filePath    string
	templateID  string
	mappingPath string
	dateFormat  string
	strict      bool
	autoGroups  bool
	autoPVs     bool
	apply       bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import contracts or personnel from a CSV/XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().String("actor", "", "acting user id (uuid, required)")
	cmd.Flags().StringVar(&opts.filePath, "file", "", "path to the import file (required)")
	cmd.Flags().StringVar(&opts.templateID, "template", "", "import template name (required)")
	cmd.Flags().StringVar(&opts.mappingPath, "mapping", "", "JSON file with column-to-field mapping (default: auto-mapper suggestion)")
	cmd.Flags().StringVar(&opts.dateFormat, "date-format", string(services.DateDayFirst), "date layout: MM/DD/YYYY or DD/MM/YYYY")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "abort the whole batch on the first row failure")
	cmd.Flags().BoolVar(&opts.autoGroups, "auto-create-groups", true, "create placeholder groups for unknown names")
	cmd.Flags().BoolVar(&opts.autoPVs, "auto-create-pvs", true, "create placeholder sales points for unknown names")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "commit the rows; without it the run stops after the preview")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetString("actor")
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			return withCode(exitUsage, fmt.Errorf("--actor is required"))
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --actor: %w", err))
		}
		opts.actorID = id
		return nil
	}

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if strings.TrimSpace(opts.filePath) == "" {
		return withCode(exitUsage, fmt.Errorf("--file is required"))
	}
	if strings.TrimSpace(opts.templateID) == "" {
		return withCode(exitUsage, fmt.Errorf("--template is required"))
	}

	data, err := os.ReadFile(opts.filePath)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read input: %w", err))
	}

	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	svc, err := buildImportService()
	if err != nil {
		return withCode(exitUsage, err)
	}
	ctx = cliContext(ctx, pool, opts.actorID)

	preview, err := svc.Upload(ctx, services.UploadDTO{
		FileName:   filepath.Base(opts.filePath),
		Data:       data,
		TemplateID: opts.templateID,
	})
	if err != nil {
		return withCode(exitValidation, err)
	}
	if err := writeJSONLine(out, preview); err != nil {
		return err
	}

	mapping := preview.SuggestedMapping
	if opts.mappingPath != "" {
		mapping, err = readMappingFile(opts.mappingPath)
		if err != nil {
			return withCode(exitUsage, err)
		}
	}

	preview, err = svc.ConfigureMapping(ctx, preview.UploadID, mapping)
	if err != nil {
		return withCode(exitValidation, err)
	}

	if len(preview.Pending) > 0 {
		// Ambiguous person references need a human; the CLI reports and
		// stops rather than guessing.
		if err := writeJSONLine(out, preview); err != nil {
			return err
		}
		return withCode(exitValidation, fmt.Errorf("%d person reference(s) are ambiguous; resolve them before confirming", len(preview.Pending)))
	}

	if !opts.apply {
		return writeJSONLine(out, map[string]any{
			"upload_id": preview.UploadID,
			"message":   "dry run complete; re-run with --apply to commit",
		})
	}

	summary, err := svc.Confirm(ctx, preview.UploadID, services.ConfirmOptions{
		DateFormat:            services.DateFormat(opts.dateFormat),
		Strict:                opts.strict,
		AutoCreateGroups:      opts.autoGroups,
		AutoCreateSalesPoints: opts.autoPVs,
	})
	if err != nil {
		return withCode(exitValidation, err)
	}
	return writeJSONLine(out, summary)
}

func readMappingFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	return m, nil
}
