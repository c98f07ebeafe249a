// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

// Package cmd provides the amazingstore command-line interface.
// This file contains reusable helpers for configuration loading with CLI flag precedence.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagLoader provides methods for loading configuration values with CLI flag precedence.
// When a CLI flag is explicitly set, it takes precedence over config file and env vars.
// Otherwise, viper's standard priority applies: env > config file > default.
type FlagLoader struct {
	cmd *cobra.Command
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd}
}

// String returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) String(flagName string) string {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetString(flagName)
		return val
	}
	return viper.GetString(flagName)
}

// Int64 returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Int64(flagName string) int64 {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetInt64(flagName)
		return val
	}
	return viper.GetInt64(flagName)
}
