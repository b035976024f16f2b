package version

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joelgerard/healthsync/pkg/update"
	"github.com/joelgerard/healthsync/pkg/utils"
)

var versionCheck bool

func init() {
	VersionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of the tool",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stdout, "%s %s\n", utils.ProjectName, utils.ProjectVersion)
		if !versionCheck {
			return nil
		}

		client := utils.GetGithubClient()
		rel, err := update.Latest(cmd.Context(), client, utils.ProjectOwner, utils.ProjectName)
		if err != nil {
			return err
		}
		status, err := update.Compare(utils.ProjectVersion, rel.Version)
		if err != nil {
			return err
		}
		switch status {
		case update.Outdated:
			fmt.Fprintf(os.Stdout, "a newer release %s is available at %s\n", rel.Version, rel.URL)
		case update.Ahead:
			fmt.Fprintf(os.Stdout, "you are running a development build ahead of the latest release %s\n", rel.Version)
		default:
			fmt.Fprintln(os.Stdout, "you are running the latest release")
		}
		return nil
	},
}
