package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:           "mak",
	Short:         "MAC practice backend and Telegram bot",
	Long:          "mak serves the MAC practice Mini App API, runs the companion bot and manages journals.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newServeCmd(),
		newBotCmd(),
		newJournalCmd(),
		newDailyCmd(),
		newOwnerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
