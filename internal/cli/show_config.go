// internal/cli/show_config.go
package bookshelf

import (
	"github.com/mwiater/bookshelf/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			LibraryURL:  viper.GetString("libraryUrl"),
			ArchiveURL:  viper.GetString("archiveUrl"),
			Debug:       viper.GetBool("debug"),
			JSONMode:    viper.GetBool("jsonMode"),
			LogFile:     viper.GetString("logFile"),
			SessionFile: viper.GetString("sessionFile"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)
		debugDump(GetConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
