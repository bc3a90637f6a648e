package main

import (
	"fmt"

	"rollcall/bot"
	"rollcall/config"
	"rollcall/roster"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the database and insert the default templates if it is empty",
	Long: `Creates the database schema and, when the templates table is empty, inserts
the built-in templates or the ones in TEMPLATES_FILE. An already populated
database is left untouched. Template names are stored lower case.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, err := openStores(cmd.Context(), config.LoadStorageConfig())
		return err
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Print the templates stored in the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, _, err := openStores(cmd.Context(), config.LoadStorageConfig())
		if err != nil {
			return err
		}

		templates, err := bot.LoadTemplates(cmd.Context(), store)
		if err != nil {
			return err
		}
		for _, tmpl := range templates {
			fmt.Fprintf(cmd.OutOrStdout(), "%v: %v\n", tmpl.Name, roster.Describe(tmpl))
		}
		return nil
	},
}
