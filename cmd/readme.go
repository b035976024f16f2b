package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joelgerard/healthsync/pkg/config"
	"github.com/joelgerard/healthsync/pkg/utils"
)

func init() {
	rootCmd.AddCommand(readmeCmd)
}

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Generates a readme for the project",
	Run: func(cmd *cobra.Command, args []string) {
		defaults := config.Default()

		fmt.Fprintf(os.Stdout, "# %s\n\n", utils.ProjectName)
		fmt.Fprintf(os.Stdout, "_%s_\n\n", utils.ProjectDescription)
		fmt.Fprintf(os.Stdout, "## Installing\n\n")
		fmt.Fprintf(os.Stdout, "`go install %s@latest`\n\n", utils.PackageName)
		fmt.Fprintf(os.Stdout, "## Usage\n\n")
		fmt.Fprintf(os.Stdout, "Running `%s sync` mirrors every configured source directory into its "+
			"destination, so that each destination becomes an exact replica of its source. "+
			"Destinations are created when missing, and the run stops at the first failure: "+
			"a source that does not exist, or the transfer tool exiting with a non-zero code.\n\n",
			utils.ProjectName,
		)
		fmt.Fprintf(os.Stdout, "Use `%s sync --dryrun` to preview the changes without writing anything, "+
			"and `%s pairs` to inspect the configured directories.\n\n",
			utils.ProjectName, utils.ProjectName,
		)
		fmt.Fprintf(os.Stdout, "## Configuration\n\n")
		fmt.Fprintf(os.Stdout, "The tool reads `~/.%s.yaml` when present (override the path with `--config`), "+
			"and environment variables prefixed with `%s_` take precedence over the file. "+
			"Without any configuration, the built-in pairs below are synced under the `%s` backup root.\n\n",
			utils.ProjectName, config.EnvPrefix, defaults.BackupRoot,
		)
		data := [][]string{{"Name", "Source", "Destination"}}
		for _, p := range defaults.Pairs {
			data = append(data, []string{p.Name, p.Source, p.Dest})
		}
		renderTable(data, os.Stdout)
		fmt.Fprintf(os.Stdout, "\nRelative destinations are resolved against the backup root.\n")
	},
}
