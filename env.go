// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assets

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the environment variable prefix for asset mapping
// settings.
const EnvPrefix = "RIVAAS_ASSETS_"

// Environment variable names (appended to EnvPrefix).
const (
	EnvAddMappings     = "ADD_MAPPINGS"     // "true"/"false", default true
	EnvCachePeriod     = "CACHE_PERIOD"     // duration, e.g. "1h", "3600s"
	EnvStaticPattern   = "STATIC_PATTERN"   // e.g. "/static/*"
	EnvStaticLocations = "STATIC_LOCATIONS" // comma-separated, e.g. "public,static"

	EnvChainEnabled      = "CHAIN_ENABLED"        // override chain decoration
	EnvChainCache        = "CHAIN_CACHE"          // memoize resolved assets
	EnvChainCompressed   = "CHAIN_COMPRESSED"     // serve precompressed siblings
	EnvChainHTMLAppCache = "CHAIN_HTML_APP_CACHE" // rewrite appcache manifests

	EnvFixedEnabled   = "CHAIN_STRATEGY_FIXED_ENABLED"
	EnvFixedVersion   = "CHAIN_STRATEGY_FIXED_VERSION"
	EnvFixedPaths     = "CHAIN_STRATEGY_FIXED_PATHS" // comma-separated globs
	EnvContentEnabled = "CHAIN_STRATEGY_CONTENT_ENABLED"
	EnvContentPaths   = "CHAIN_STRATEGY_CONTENT_PATHS" // comma-separated globs
)

// envConfig accumulates parsing errors so operators see every bad
// variable at once instead of fixing them one restart at a time.
type envConfig struct {
	errors []error
}

func (e *envConfig) addError(envVar string, err error) {
	e.errors = append(e.errors, fmt.Errorf("invalid environment variable %s%s: %w", EnvPrefix, envVar, err))
}

func (e *envConfig) boolVar(name string, target *bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.addError(name, err)
		return
	}
	*target = parsed
}

func (e *envConfig) optionalBoolVar(name string, target **bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.addError(name, err)
		return
	}
	*target = &parsed
}

func (e *envConfig) durationVar(name string, target **time.Duration) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.addError(name, err)
		return
	}
	*target = &parsed
}

func (e *envConfig) stringVar(name string, target *string) {
	if value, ok := os.LookupEnv(EnvPrefix + name); ok {
		*target = value
	}
}

func (e *envConfig) listVar(name string, target *[]string) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		e.addError(name, fmt.Errorf("list is empty"))
		return
	}
	*target = list
}

// ConfigFromEnv returns DefaultConfig with RIVAAS_ASSETS_* environment
// overrides applied. All parse errors are reported together via
// errors.Join.
//
// Example:
//
//	RIVAAS_ASSETS_CACHE_PERIOD=1h \
//	RIVAAS_ASSETS_CHAIN_STRATEGY_CONTENT_ENABLED=true \
//	myserver
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	env := &envConfig{}

	env.boolVar(EnvAddMappings, &cfg.AddMappings)
	env.durationVar(EnvCachePeriod, &cfg.CachePeriod)
	env.stringVar(EnvStaticPattern, &cfg.StaticPathPattern)
	env.listVar(EnvStaticLocations, &cfg.StaticLocations)

	env.optionalBoolVar(EnvChainEnabled, &cfg.Chain.Enabled)
	env.boolVar(EnvChainCache, &cfg.Chain.Cache)
	env.boolVar(EnvChainCompressed, &cfg.Chain.Compressed)
	env.boolVar(EnvChainHTMLAppCache, &cfg.Chain.HTMLAppCache)

	env.boolVar(EnvFixedEnabled, &cfg.Chain.Strategy.Fixed.Enabled)
	env.stringVar(EnvFixedVersion, &cfg.Chain.Strategy.Fixed.Version)
	env.listVar(EnvFixedPaths, &cfg.Chain.Strategy.Fixed.Paths)
	env.boolVar(EnvContentEnabled, &cfg.Chain.Strategy.Content.Enabled)
	env.listVar(EnvContentPaths, &cfg.Chain.Strategy.Content.Paths)

	if len(env.errors) > 0 {
		return Config{}, errors.Join(env.errors...)
	}
	return cfg, nil
}
