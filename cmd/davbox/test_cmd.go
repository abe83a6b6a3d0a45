package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newTestCmd())
}

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check whether the server answers WebDAV requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			ok, err := c.TestConnection(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("server at %s answered but rejected the request", c.BaseURL().Redacted())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "connection to %s ok\n", c.BaseURL().Redacted())
			return nil
		},
	}
}
