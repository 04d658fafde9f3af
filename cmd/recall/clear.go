// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Recall Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	recallerr "github.com/recall-dev/recall/pkg/errors"
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole index",
		Long:  "Delete all persisted memory artifacts and reset the running store to empty.",
		RunE:  runClear,
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	return cmd
}

func runClear(cmd *cobra.Command, _ []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return recallerr.New(recallerr.CodeCLIRequestFailure,
			"refusing to clear the index without --yes (this deletes every stored memory)")
	}

	client := newServerClient(viper.GetString("networking.listen"))

	var resp struct {
		Status string `json:"status"`
	}
	if err := client.deleteJSON("/clear", &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Index cleared.")
	return nil
}
