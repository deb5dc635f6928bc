package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sender == "" || recipient == "" {
			return errors.New("sender and recipient are required")
		}

		tx := struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
			Amount    uint64 `json:"amount"`
		}{
			Sender:    sender,
			Recipient: recipient,
			Amount:    amount,
		}

		return send(http.MethodPost, "/v1/transactions/new", tx)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Identifier of the sender.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Identifier of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
}
