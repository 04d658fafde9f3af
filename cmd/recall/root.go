// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/recall-dev/recall/internal/config"
	recallerr "github.com/recall-dev/recall/pkg/errors"
)

// NewRootCmd creates the root recall command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recall",
		Short:         "Local semantic memory for your browsing history and agents",
		Long:          "Recall stores text fragments with embeddings and answers nearest-neighbor queries over them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags, mapped to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("data-dir", "", "path to the store directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newStatsCmd(),
		newClearCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		v.Set("storage.dir", dataDir)
	}

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return recallerr.Errorf(recallerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
		return nil
	}

	// Auto-discover recall.yaml from standard locations. No config file is
	// fine since defaults and env vars still apply; parse or permission
	// errors must surface.
	v.SetConfigName("recall")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/recall")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return recallerr.Errorf(recallerr.CodeConfigLoadReadFailure, "reading config: %w", err)
		}
		if path := config.BootstrapConfig(); path != "" {
			v.SetConfigFile(path)
			_ = v.ReadInConfig()
		}
	}
	return nil
}
