// Command cityexplorer runs the Smart City Explorer Telegram bot.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/m3rciful/cityexplorer/core/bootstrap"
	"github.com/m3rciful/cityexplorer/core/buildinfo"
	corecmd "github.com/m3rciful/cityexplorer/core/cmd"
	coreconfig "github.com/m3rciful/cityexplorer/core/config"
	"github.com/m3rciful/cityexplorer/explorer/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cityexplorer",
		Short:         "Smart City Explorer Telegram bot",
		Long:          "A Telegram assistant that answers city questions by category: history, tourism, food, transport, hotels, events, shopping, parks and travel utilities.",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default $"+corecmd.DefaultConfigEnvVar+")")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the bot (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printVersion(cmd.OutOrStdout())
			},
		},
	)
	return root
}

func serve(ctx context.Context, configPath string) error {
	return corecmd.Run(ctx, corecmd.Options{
		ConfigPath:        configPath,
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(ctx context.Context, cfg *coreconfig.Config) (corecmd.TelegramApp, error) {
			infra, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			a, err := app.New(cfg, infra)
			if err != nil {
				_ = infra.Close()
				return nil, err
			}
			return a, nil
		},
	})
}

func versionString() string {
	v := buildinfo.Version + " (" + buildinfo.Commit
	if buildinfo.Date != "" {
		v += ", built " + buildinfo.Date
	}
	return v + ")"
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "cityexplorer %s\n", versionString())
	fmt.Fprintf(w, "go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
