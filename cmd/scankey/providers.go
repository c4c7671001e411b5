package scankey

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/providers"
)

func init() {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported providers and their detection surface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := tablewriter.NewTable(cmd.OutOrStdout())
			t.Header("Provider", "Prefix", "Patterns", "Markers", "Probe URL")
			for _, info := range providers.All() {
				if err := t.Append([]string{
					info.Provider.String(),
					info.Prefix,
					strconv.Itoa(len(info.Patterns)),
					strconv.Itoa(len(info.Markers)),
					info.ProbeURL,
				}); err != nil {
					return err
				}
			}
			return t.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
