package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/joelgerard/healthsync/pkg/config"
)

func init() {
	rootCmd.AddCommand(pairsCmd)
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Lists the configured sync pairs and their current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootConfig)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "backup root: %s\n\n", cfg.BackupRoot)
		data := [][]string{{"Name", "Source", "Destination", "Status"}}
		for _, p := range cfg.Pairs {
			data = append(data, []string{p.Name, p.Source, p.Dest, pairStatus(p)})
		}
		renderTable(data, os.Stdout)
		return nil
	},
}

// pairStatus summarizes what a sync run would encounter for the pair: a
// missing source makes the run fail, a missing destination just gets
// created.
func pairStatus(p config.SyncPair) string {
	if !dirExists(p.Source) {
		return "missing source"
	}
	if !dirExists(p.Dest) {
		return "new destination"
	}
	return "ready"
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func renderTable(data [][]string, w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data[0])
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(data[1:])
	table.Render()
}
