// Command kvs-client is a thin CLI wrapper around internal/client,
// issuing a single command per invocation against a running kvs-server.
package main

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/kvs/internal/client"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:   "kvs-client",
		Short: "Talk to a kvs-server instance",
	}
	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:4000", "server address")

	root.AddCommand(newGetCommand(&addr), newSetCommand(&addr), newRemoveCommand(&addr))
	return root
}

func newGetCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:  "get <key>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr)
			value, ok, err := c.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Key not found")
				os.Exit(1)
			}
			fmt.Fprintln(os.Stdout, value)
			return nil
		},
	}
}

func newSetCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:  "set <key> <value>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr)
			return c.Set(args[0], args[1])
		},
	}
}

func newRemoveCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:  "rm <key>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*addr)
			err := c.Remove(args[0])
			if err != nil && kvserrors.IsClientError(err) {
				fmt.Fprintln(os.Stdout, "Key not found")
				os.Exit(1)
			}
			return err
		},
	}
}
