// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assoc-cms",
	Short: "AssocCMS is the website and admin panel of a nonprofit association",
	Long: `AssocCMS serves the public website of an association and an admin panel
to manage its events, announcements, partners, applications and newsletter.
Access to the panel is controlled by roles.`,
	Args: cobra.OnlyValidArgs,
}

// configPath is the directory holding main.toml.
var configPath string

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
