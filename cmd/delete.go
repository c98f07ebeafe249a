// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <file-id>",
	Short: "Delete a file, all its versions, and their chunks",
	Long: `Delete removes every chunk of every version best-effort, then the
manifest. Individual chunk failures are reported but do not stop the
deletion; a partial outcome may strand chunks on unreachable backends.`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) {
	fileID := args[0]

	app, err := openApp(cmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage engine")
	}
	defer app.Close()

	result, err := app.Engine.Delete(cmd.Context(), fileID)
	if err != nil {
		logger.Fatal().Err(err).Str("file_id", fileID).Msg("Delete failed")
	}

	if !result.Found {
		fmt.Printf("File %s not found (nothing to delete)\n", fileID)
		return
	}

	fmt.Printf("Deleted %d chunk(s)\n", result.ChunksDeleted)
	for _, f := range result.ChunkFailures {
		fmt.Printf("  failed: chunk %d (version %s, backend %d): %v\n",
			f.ChunkIndex, f.VersionID, f.BackendIndex, f.Err)
	}
	if result.Partial() {
		logger.Warn().
			Str("file_id", fileID).
			Int("chunk_failures", len(result.ChunkFailures)).
			Msg("Deletion completed with stranded chunks")
	}
}
