// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/recall-dev/recall/internal/memory"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	client := newServerClient(viper.GetString("networking.listen"))

	var stats memory.Stats
	if err := client.getJSON("/stats", &stats); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed URLs: %d\n", stats.IndexedURLs)
	fmt.Fprintf(out, "Total chunks: %d\n", stats.TotalChunks)
	fmt.Fprintf(out, "Index size:   %d bytes\n", stats.IndexSize)
	return nil
}
