package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
)

func init() {
	rootCmd.AddCommand(listKindsCmd)
}

var listKindsCmd = &cobra.Command{
	Use:   "list-kinds",
	Short: "Print the recognised webhook event types",
	RunE:  listKinds,
}

func listKinds(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-42s  %s\n", "TYPE", "DELIVERED")
	for _, k := range webhook.AllEventKinds() {
		delivered := "yes"
		if !k.Deliverable() {
			delivered = "no (handshake)"
		}
		fmt.Fprintf(out, "%-42s  %s\n", k, delivered)
	}
	return nil
}
