package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds vssutil's file/env-configurable settings as LoadVSSConfig
// layers them: viper.SetDefault, then config file, then VSS_-prefixed
// environment variables. No subcommand calls LoadVSSConfig; the command-line
// flags are read on their own.
type Config struct {
	VolumeOffset    int64 `mapstructure:"volume_offset"`
	CacheSizeBlocks int   `mapstructure:"cache_size_blocks"`
}

// LoadVSSConfig loads vssutil's configuration using Viper, searching the
// current directory, ./config, $HOME/.vssutil, and /etc/vssutil for a
// vssutil-config.yaml.
func LoadVSSConfig() (*Config, error) {
	viper.SetConfigName("vssutil-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.vssutil")
	viper.AddConfigPath("/etc/vssutil")

	viper.SetDefault("volume_offset", 0)
	viper.SetDefault("cache_size_blocks", 2048)

	viper.SetEnvPrefix("VSS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
