package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/sitethumbs"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "sitethumbs",
		Short: "Generate image thumbnails for a static site",
		Long: `sitethumbs walks a content directory, creates the thumbnails requested by
each directory's nodemeta.yaml and publishes the site into a deploy directory.

Examples:
  sitethumbs new mysite          # Create a starter site
  sitethumbs build               # Build using ./site.yaml
  sitethumbs serve --watch       # Build, serve and rebuild on changes`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./site.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(buildCmd, serveCmd, newCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSite reads the configuration and applies command line overrides.
func loadSite() (*sitethumbs.Site, error) {
	cfg, err := sitethumbs.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := sitethumbs.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	return sitethumbs.New(cfg, sitethumbs.WithLogger(logger)), nil
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate thumbnails and publish the site",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadSite()
		if err != nil {
			return err
		}
		defer site.Close()
		return site.Build()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sitethumbs version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sitethumbs %s\n", version)
	},
}
