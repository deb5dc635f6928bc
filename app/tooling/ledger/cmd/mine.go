package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var background bool

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a new block on the node",
	RunE: func(cmd *cobra.Command, args []string) error {
		if background {
			return send(http.MethodGet, "/v1/mining/signal", nil)
		}
		return send(http.MethodGet, "/v1/mine", nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().BoolVarP(&background, "background", "b", false, "Signal the node's background miner and return.")
}
