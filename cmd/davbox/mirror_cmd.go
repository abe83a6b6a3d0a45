package main

import (
	"fmt"

	"github.com/davbox/davbox/internal/davsdk"
	"github.com/davbox/davbox/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newMirrorCmd())
}

func newMirrorCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "mirror <remote-dir> <local-dir>",
		Short: "Download every file in a remote directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDir, err := utils.ResolvePath(args[1])
			if err != nil {
				return err
			}

			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.ListContents(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var jobs []*davsdk.DownloadJob
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				jobs = append(jobs, &davsdk.DownloadJob{RemotePath: e.Path, Name: e.Name})
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to download")
				return nil
			}

			results := c.DownloadAll(cmd.Context(), &davsdk.DownloadOpts{
				Jobs:      jobs,
				TargetDir: targetDir,
				Workers:   workers,
			})

			var failed int
			for res := range results {
				if res.Error != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", res.RemotePath, res.Error)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s\n", res.LocalPath)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(jobs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", davsdk.DefaultWorkers, "Concurrent downloads")
	return cmd
}
