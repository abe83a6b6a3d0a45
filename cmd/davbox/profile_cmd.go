package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/davbox/davbox/internal/davsdk"
	"github.com/davbox/davbox/internal/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved server profiles",
	}
	profileCmd.AddCommand(
		newProfileAddCmd(),
		newProfileLsCmd(),
		newProfileRmCmd(),
	)
	rootCmd.AddCommand(profileCmd)
}

func newProfileAddCmd() *cobra.Command {
	var useTLS bool

	cmd := &cobra.Command{
		Use:   "add <name> <server-url> <username> <password>",
		Short: "Save a server profile",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			p := profile.New(args[0], args[1], args[2], args[3], useTLS)
			if err := store.Add(p); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %q for %s\n", p.Name, p.DisplayURL())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useTLS, "tls", false, "Use HTTPS when the server URL has no scheme")
	return cmd
}

func newProfileLsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List saved profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			profiles := store.List()
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles saved")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSERVER\tUSER\tSTATUS")
			for _, p := range profiles {
				status := "-"
				if check {
					p.Connected = probeProfile(cmd, p)
					status = "unreachable"
					if p.Connected {
						status = "ok"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.DisplayURL(), p.Username, status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Probe each server before listing")
	return cmd
}

func probeProfile(cmd *cobra.Command, p *profile.Profile) bool {
	c, err := davsdk.New(p.SDKConfig(10*time.Second, viper.GetBool("insecure")))
	if err != nil {
		return false
	}
	defer c.Close()

	ok, err := c.TestConnection(cmd.Context())
	return err == nil && ok
}

func newProfileRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			return store.Save()
		},
	}
}
