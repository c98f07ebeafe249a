// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files, or backend capacity with --backends",
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("backends", false, "Show backend capacity instead of files")
}

func runList(cmd *cobra.Command, args []string) {
	app, err := openApp(cmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage engine")
	}
	defer app.Close()

	if show, _ := cmd.Flags().GetBool("backends"); show {
		runListBackends(cmd, app)
		return
	}

	entries, err := app.Engine.List(cmd.Context())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list files")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE ID\tFILENAME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.FileID, e.Filename)
	}
	w.Flush()
}

func runListBackends(cmd *cobra.Command, app *appContext) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTYPE\tTOTAL\tUSED\tSTATUS")
	for _, s := range app.Engine.BackendStats(cmd.Context()) {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			s.Index, s.Type, humanize.IBytes(s.TotalBytes), humanize.IBytes(s.UsedBytes), status)
	}
	w.Flush()
}
