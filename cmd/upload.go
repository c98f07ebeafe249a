// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redowanracy/AmazingStorageSystem/pkg/engine"
	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file, chunking it across the configured backends",
	Long: `Upload splits the file into fixed-size chunks, places each chunk on a
backend chosen round-robin, and records a new manifest version. With
--file-id the upload becomes a new version of an existing file; an unknown
id falls back to creating a new file.`,
	Args: cobra.ExactArgs(1),
	Run:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	f := uploadCmd.Flags()
	f.String("file-id", "", "Existing file id to add this upload as a new version")
	f.String("notes", "", "Version notes recorded in the manifest")
	f.Int64("chunk_size", 0, "Chunk size in bytes for new files (default from config)")
}

func runUpload(cmd *cobra.Command, args []string) {
	path := args[0]

	app, err := openApp(cmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage engine")
	}
	defer app.Close()

	src, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("Failed to open source file")
	}
	defer src.Close()

	fileID, _ := cmd.Flags().GetString("file-id")
	notes, _ := cmd.Flags().GetString("notes")

	id, err := app.Engine.Upload(cmd.Context(), src, filepath.Base(path), engine.UploadOptions{
		FileID: fileID,
		Notes:  notes,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("Upload failed")
	}

	fmt.Println(id)
}
