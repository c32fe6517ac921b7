package cmd

import (
	"github.com/spf13/cobra"
	"github.com/symbolica-app/symbolica/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize symbolica configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the enrichment service and generates a .symbolica.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
