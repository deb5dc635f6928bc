package cmd

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [address...]",
	Short: "Register peer nodes with the node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		return send(http.MethodPost, "/v1/nodes/register", nodes)
	},
}

var unregisterCmd = &cobra.Command{
	Use:   "unregister [host:port]",
	Short: "Remove a peer node from the node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(http.MethodDelete, "/v1/nodes/"+url.PathEscape(args[0]), nil)
	},
}

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Show the status of the node's peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(http.MethodGet, "/v1/nodes/status", nil)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run the consensus algorithm on the node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(http.MethodGet, "/v1/nodes/resolve", nil)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
	rootCmd.AddCommand(peersCmd)
	rootCmd.AddCommand(resolveCmd)
}
