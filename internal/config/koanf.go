// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

func defaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		Store:           StoreConfig{User: "default", Database: "nostr"},
		BatchSize:       1000,
		BatchIntervalMS: 100,
		LogLevel:        "info",
	}
}

func defaultAPIConfig() *APIConfig {
	return &APIConfig{
		Store:    StoreConfig{User: "default", Database: "nostr"},
		LogLevel: "info",
	}
}

// LoadIngestConfig loads cmd/ingest's configuration: struct defaults
// layered under environment variables, per spec.md 6.
func LoadIngestConfig() (*IngestConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultIngestConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", ingestEnvTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &IngestConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAPIConfig loads cmd/api's configuration.
func LoadAPIConfig() (*APIConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultAPIConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", apiEnvTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &APIConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ingestEnvVars maps spec.md 6's ingestion-relevant environment
// variables to koanf paths. Unmapped keys are skipped, so unrelated
// process environment does not leak into the config tree.
var ingestEnvVars = map[string]string{
	"relay_url":           "relay_url",
	"clickhouse_url":      "clickhouse.url",
	"clickhouse_user":     "clickhouse.user",
	"clickhouse_password": "clickhouse.password",
	"clickhouse_database": "clickhouse.database",
	"batch_size":          "batch_size",
	"batch_interval_ms":   "batch_interval_ms",
	"backfill":            "backfill",
	"log_level":           "log_level",
}

var apiEnvVars = map[string]string{
	"clickhouse_url":      "clickhouse.url",
	"clickhouse_user":     "clickhouse.user",
	"clickhouse_password": "clickhouse.password",
	"clickhouse_database": "clickhouse.database",
	"api_token":           "api_token",
	"log_level":           "log_level",
}

func ingestEnvTransform(key string) string {
	if mapped, ok := ingestEnvVars[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func apiEnvTransform(key string) string {
	if mapped, ok := apiEnvVars[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
