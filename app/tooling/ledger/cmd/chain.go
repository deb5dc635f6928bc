package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var pending bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pending {
			return send(http.MethodGet, "/v1/transactions/pending", nil)
		}
		return send(http.MethodGet, "/v1/chain", nil)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&pending, "pending", "p", false, "Print the pending transactions instead.")
}
