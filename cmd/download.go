// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id> <output-path>",
	Short: "Download a file, reassembling its chunks",
	Long: `Download fetches every chunk of the file's current version in order,
verifies each chunk's hash against the manifest, and writes the
reconstructed bytes to the output path. Any hash mismatch aborts the
download; a truncated or corrupt file is never produced.`,
	Args: cobra.ExactArgs(2),
	Run:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) {
	fileID, outputPath := args[0], args[1]

	app, err := openApp(cmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage engine")
	}
	defer app.Close()

	// Write to a temp file first so a failed download leaves nothing
	// half-written at the destination.
	tmp, err := os.CreateTemp("", "amazingstore-download-*")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create temporary file")
	}
	tmpPath := tmp.Name()

	if err := app.Engine.Download(cmd.Context(), fileID, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		logger.Fatal().Err(err).Str("file_id", fileID).Msg("Download failed")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		logger.Fatal().Err(err).Msg("Failed to finalize download")
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		// Cross-device rename fails; fall back to copy via read+write.
		data, rerr := os.ReadFile(tmpPath)
		if rerr == nil {
			rerr = os.WriteFile(outputPath, data, 0644)
		}
		os.Remove(tmpPath)
		if rerr != nil {
			logger.Fatal().Err(err).Str("path", outputPath).Msg("Failed to move downloaded file")
		}
	}

	logger.Info().Str("file_id", fileID).Str("path", outputPath).Msg("Download complete")
}
