package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/enrich"
	"lectern/internal/language"
	"lectern/internal/narrate"
)

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the available narration styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, style := range narrate.Styles() {
				key := style.Key
				if key == narrate.DefaultStyle {
					key += " (default)"
				}
				rows = append(rows, []string{key, style.Name, style.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Style", "Name", "Description"}, rows))

			rows = rows[:0]
			for _, level := range enrich.Levels() {
				rows = append(rows, []string{level.Name, level.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Enrichment", "Description"}, rows))
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, code := range language.Codes() {
				rows = append(rows, []string{code, language.DisplayName(code)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language"}, rows))
			return nil
		},
	}
}
