package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davbox/davbox/internal/davsdk"
	"github.com/davbox/davbox/internal/profile"
	"github.com/davbox/davbox/internal/version"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "davbox",
	Short:         "DavBox WebDAV client",
	Version:       version.Detailed(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringP("profile", "P", "", "Saved profile name or id")
	rootCmd.PersistentFlags().StringP("server", "s", "", "WebDAV server URL")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Password")
	rootCmd.PersistentFlags().Bool("tls", false, "Use HTTPS when the server URL has no scheme")
	rootCmd.PersistentFlags().Bool("insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().String("store", profile.DefaultStorePath, "Profile store path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

func bindFlags(cmd *cobra.Command) error {
	for _, name := range []string{"profile", "server", "username", "password", "tls", "insecure", "timeout", "store", "verbose"} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	viper.SetEnvPrefix("DAVBOX")
	viper.AutomaticEnv()
	return nil
}

func openStore() (*profile.Store, error) {
	return profile.Open(viper.GetString("store"))
}

// sdkConfig resolves connection settings from a saved profile when
// --profile is set, otherwise from the flags and environment.
func sdkConfig() (*davsdk.Config, error) {
	timeout := viper.GetDuration("timeout")
	insecure := viper.GetBool("insecure")

	if name := viper.GetString("profile"); name != "" {
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		p, err := store.Get(name)
		if err != nil {
			return nil, err
		}
		return p.SDKConfig(timeout, insecure), nil
	}

	return &davsdk.Config{
		BaseURL:     viper.GetString("server"),
		Username:    viper.GetString("username"),
		Password:    viper.GetString("password"),
		UseTLS:      viper.GetBool("tls"),
		InsecureTLS: insecure,
		Timeout:     timeout,
	}, nil
}

func newSDKClient() (*davsdk.Client, error) {
	cfg, err := sdkConfig()
	if err != nil {
		return nil, err
	}
	return davsdk.New(cfg)
}
