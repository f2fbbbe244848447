// Package config centralizes every tunable of the atlas library. Values
// come from an optional atlas.yaml, overridden by environment variables.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries the knobs consumed across the library. The matching
// thresholds were tuned against historical constituency and booth data.
type Config struct {
	// Data endpoints.
	BaseURL   string
	SchemaURL string
	DataDir   string

	// Durable cache.
	CacheDir  string
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Matching thresholds.
	SimilarityThreshold float64
	MinPrefixLen        int
	MinACShare          float64
	BoothMinConfidence  float64

	// Network.
	FetchTimeout time.Duration
}

// Load reads atlas.yaml from the working directory or ./config, applies
// defaults for every key, and lets environment variables override both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("atlas")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("data.base_url", "https://data.politic.in/atlas")
	v.SetDefault("data.schema_url", "")
	v.SetDefault("data.dir", "")
	v.SetDefault("cache.dir", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("match.similarity_threshold", 0.7)
	v.SetDefault("match.min_prefix_len", 10)
	v.SetDefault("match.min_ac_share", 0.03)
	v.SetDefault("match.booth_min_confidence", 0.7)
	v.SetDefault("fetch.timeout", "30s")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		BaseURL:             v.GetString("data.base_url"),
		SchemaURL:           v.GetString("data.schema_url"),
		DataDir:             v.GetString("data.dir"),
		CacheDir:            v.GetString("cache.dir"),
		RedisAddr:           v.GetString("redis.addr"),
		RedisPass:           v.GetString("redis.pass"),
		RedisDB:             v.GetInt("redis.db"),
		SimilarityThreshold: v.GetFloat64("match.similarity_threshold"),
		MinPrefixLen:        v.GetInt("match.min_prefix_len"),
		MinACShare:          v.GetFloat64("match.min_ac_share"),
		BoothMinConfidence:  v.GetFloat64("match.booth_min_confidence"),
		FetchTimeout:        v.GetDuration("fetch.timeout"),
	}, nil
}
