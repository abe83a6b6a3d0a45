package main

import (
	"fmt"
	"os"
	"path"

	"github.com/davbox/davbox/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(
		newMkdirCmd(),
		newPutCmd(),
		newGetCmd(),
		newRmCmd(),
		newMvCmd(),
		newURLCmd(),
		newPropsCmd(),
	)
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			return c.CreateDirectory(cmd.Context(), args[0])
		},
	}
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <local-file> <remote-path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := utils.ResolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(local)
			if err != nil {
				return err
			}

			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.UploadFile(cmd.Context(), data, args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%s)\n", args[1], humanize.IBytes(uint64(len(data))))
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "get <remote-path> [local-file]",
		Short: "Download a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := path.Base(args[0])
			if len(args) == 2 {
				local = args[1]
			}
			local, err := utils.ResolvePath(local)
			if err != nil {
				return err
			}
			if !force && utils.FileExists(local) {
				return fmt.Errorf("%s already exists, pass --force to overwrite", local)
			}

			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			data, err := c.DownloadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := os.WriteFile(local, data, 0644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s (%s)\n", local, humanize.IBytes(uint64(len(data))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing local file")
	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			return c.DeleteItem(cmd.Context(), args[0])
		},
	}
}

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <path> <new-name>",
		Short: "Rename an item within its directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			return c.RenameItem(cmd.Context(), args[0], args[1])
		},
	}
}

func newURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <remote-path>",
		Short: "Print a direct playback URL with embedded credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			u, err := c.StreamURL(args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), u.String())
			return err
		},
	}
}

func newPropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "props <remote-path>",
		Short: "Show the raw properties of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			props, err := c.GetProperties(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, k := range sortedKeys(props) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, props[k])
			}
			return nil
		},
	}
}
