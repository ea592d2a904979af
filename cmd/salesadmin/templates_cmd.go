package main

import (
	"github.com/spf13/cobra"

	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	"github.com/ventia/salesadmin/pkg/configuration"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the configured import templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := template.NewFileRegistry(configuration.Use().TemplatesPath)
			if err != nil {
				return withCode(exitUsage, err)
			}
			all, err := registry.GetAll(cmd.Context())
			if err != nil {
				return withCode(exitUsage, err)
			}
			for _, tpl := range all {
				fields := make([]map[string]any, 0, len(tpl.Fields()))
				for _, f := range tpl.Fields() {
					fields = append(fields, map[string]any{
						"name":     f.Name,
						"kind":     f.Kind,
						"required": f.Required,
						"aliases":  f.Aliases,
					})
				}
				if err := writeJSONLine(cmd.OutOrStdout(), map[string]any{
					"name":   tpl.Name(),
					"entity": tpl.Entity(),
					"fields": fields,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
