package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/identity"
	"github.com/spf13/cobra"
)

var keyFile string

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a key file for a node identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.Generate(keyFile)
		if err != nil {
			return err
		}

		fmt.Println(good("key written to"), keyFile)
		fmt.Println(info("node id:"), id)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(genkeyCmd)
	genkeyCmd.Flags().StringVarP(&keyFile, "file", "f", "zblock/accounts/miner1.ecdsa", "Path of the key file to write.")
}
