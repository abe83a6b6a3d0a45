package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/davbox/davbox/internal/dav"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLsCmd())
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List the contents of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remotePath := "/"
			if len(args) == 1 {
				remotePath = args[0]
			}

			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.ListContents(cmd.Context(), remotePath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Kind, entrySize(e), entryDate(e), e.Name)
			}
			return w.Flush()
		},
	}
}

func entrySize(e *dav.Entry) string {
	if e.Size == nil {
		return "-"
	}
	return humanize.IBytes(uint64(*e.Size))
}

func entryDate(e *dav.Entry) string {
	if e.ModifiedAt == nil {
		return "-"
	}
	return e.ModifiedAt.Local().Format("2006-01-02 15:04")
}
