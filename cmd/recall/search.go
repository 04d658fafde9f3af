// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/recall-dev/recall/internal/memory"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed history",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().IntP("max-results", "k", 0, "maximum number of results (default from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = viper.GetInt("memory.top_k")
	}

	client := newServerClient(viper.GetString("networking.listen"))

	var resp struct {
		Query        string                `json:"query"`
		Results      []memory.SearchResult `json:"results"`
		TotalResults int                   `json:"total_results"`
	}
	err := client.postJSON("/search", map[string]any{
		"query":       query,
		"max_results": maxResults,
	}, &resp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resp.TotalResults == 0 {
		fmt.Fprintln(out, "No matches.")
		return nil
	}

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%d. %s (score %.4f)\n", i+1, displayTitle(r), r.Score)
		fmt.Fprintf(out, "   %s\n", r.Snippet)
	}
	return nil
}

func displayTitle(r memory.SearchResult) string {
	switch {
	case r.Title != "" && r.URL != "":
		return r.Title + " - " + r.URL
	case r.URL != "":
		return r.URL
	case r.Title != "":
		return r.Title
	default:
		return "(untitled)"
	}
}
