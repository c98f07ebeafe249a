// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/redowanracy/AmazingStorageSystem/pkg/engine"
	"github.com/redowanracy/AmazingStorageSystem/pkg/env"
	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"
	"github.com/redowanracy/AmazingStorageSystem/pkg/manifest"
	"github.com/redowanracy/AmazingStorageSystem/pkg/storage/backend"
	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
	"github.com/redowanracy/AmazingStorageSystem/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amazingstore",
	Short: "Amazing Storage System - chunked multi-backend file storage",
	Long: `Amazing Storage System splits files into fixed-size chunks and spreads
them across a pool of storage backends (local disk, S3, MinIO). Files are
reconstructed byte-for-byte with per-chunk integrity verification, and every
upload to an existing file becomes a new restorable version.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if env.IsLocal() {
			logger.ConsoleMode()
		}
		if raw := NewFlagLoader(cmd).String("log_level"); raw != "" {
			level, err := zerolog.ParseLevel(raw)
			if err != nil || level == zerolog.NoLevel {
				logger.Warn().Str("log_level", raw).Msg("invalid log level, keeping default")
			} else {
				logger.SetLevel(level)
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	rootCmd.PersistentFlags().String("log_level", "", "Log level (trace, debug, info, warn, error)")
}

// appContext bundles the wired storage stack a subcommand runs against.
type appContext struct {
	Config    *types.AppConfig
	Pool      *backend.Pool
	Manifests manifest.Store
	Engine    *engine.Engine
}

// Close releases backend and store resources in reverse wiring order.
func (a *appContext) Close() {
	if a.Manifests != nil {
		a.Manifests.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// openApp loads configuration and wires backends, manifest store, and
// engine. Every data subcommand starts here.
func openApp(cmd *cobra.Command) (*appContext, error) {
	utils.LoadConfiguration("amazingstore", true)

	cfg, err := types.LoadAppConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	loader := NewFlagLoader(cmd)
	if cs := loader.Int64("chunk_size"); cs > 0 {
		cfg.ChunkSize = cs
	}

	pool, err := backend.NewPool(cfg.Buckets)
	if err != nil {
		return nil, fmt.Errorf("initialize backends: %w", err)
	}

	store, err := manifest.Open(cfg.Manifest, cfg.Cache)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open manifest store: %w", err)
	}

	eng, err := engine.New(pool, store, cfg.ChunkSize)
	if err != nil {
		store.Close()
		pool.Close()
		return nil, err
	}

	return &appContext{Config: cfg, Pool: pool, Manifests: store, Engine: eng}, nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
