// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ConfigurationFileDirectory string
)

// ResolvePath expands a leading ~ to the user's home directory.
func ResolvePath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// LoadConfiguration merges the named config file into viper's global state.
// Environment variables override file values (dots become underscores).
func LoadConfiguration(configFileName string, required bool) bool {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath(ResolvePath(ConfigurationFileDirectory))
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.amazingstore")
	viper.AddConfigPath("/usr/local/etc/amazingstore/")
	viper.AddConfigPath("/etc/amazingstore/")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if required {
				log.Fatal().Msgf("Config file not found: %s", configFileName)
			}
			log.Info().Msgf("Config file not found: %s", configFileName)
			return false
		}

		if required {
			log.Fatal().Msgf("Failed to load required config file: %s", configFileName)
		}
		return false
	}
	log.Info().Msgf("Loaded config file: %s", viper.ConfigFileUsed())

	return true
}
