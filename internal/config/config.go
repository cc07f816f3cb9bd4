// Package config loads pffcat's runtime tunables with Viper, the way
// go-apfs's internal/device.LoadDMGConfig loads apfs-config.yaml: defaults
// set first, then an optional file, then environment variables, each
// layer overriding the last.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vound-software/libpff-20120802-sub001/internal/cache"
)

// Config bundles the cache sizes and defaults spec.md §4.11/§4.8 leave to
// the embedder (the core itself takes no configuration of its own -
// spec.md §6 "Environment and persisted state").
type Config struct {
	BlockCacheCapacity  int   `mapstructure:"block_cache_capacity"`
	StreamCacheCapacity int   `mapstructure:"stream_cache_capacity"`
	TableCacheCapacity  int   `mapstructure:"table_cache_capacity"`
	DefaultASCIICodepage int32 `mapstructure:"default_ascii_codepage"`
	RecoveryCap         int   `mapstructure:"recovery_cap"`
}

// CacheSizes projects the cache capacities into internal/cache's Sizes.
func (c Config) CacheSizes() cache.Sizes {
	return cache.Sizes{Blocks: c.BlockCacheCapacity, Streams: c.StreamCacheCapacity, Tables: c.TableCacheCapacity}
}

// Load reads pffcat-config.{yaml,json,...} from the working directory, the
// user's config directory, or /etc/pffcat, falling back to built-in
// defaults for anything unset. Environment variables prefixed PFFCAT_
// override both (e.g. PFFCAT_TABLE_CACHE_CAPACITY).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("pffcat-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.pffcat")
	v.AddConfigPath("/etc/pffcat")

	v.SetDefault("block_cache_capacity", cache.DefaultBlockCacheCapacity)
	v.SetDefault("stream_cache_capacity", cache.DefaultStreamCacheCapacity)
	v.SetDefault("table_cache_capacity", cache.DefaultTableCacheCapacity)
	v.SetDefault("default_ascii_codepage", 1252)
	v.SetDefault("recovery_cap", 10_000)

	v.SetEnvPrefix("PFFCAT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &c, nil
}
