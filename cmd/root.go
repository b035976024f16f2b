package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joelgerard/healthsync/cmd/sync"
	"github.com/joelgerard/healthsync/cmd/version"
	"github.com/joelgerard/healthsync/pkg/utils"
)

var (
	rootVerbose bool
	rootConfig  string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "if true, turns the logger into more verbose")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "path of the configuration file (default ~/."+utils.ProjectName+".yaml)")
	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(version.VersionCmd)
}

var rootCmd = &cobra.Command{
	Use:          utils.ProjectName,
	Short:        utils.ProjectDescription,
	Version:      utils.ProjectVersion,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		if rootVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute will execute the root command
func Execute() error {
	return rootCmd.Execute()
}
