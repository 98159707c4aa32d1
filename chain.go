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
	"rivaas.dev/assets/resolver"
	"rivaas.dev/assets/transformer"
)

// chainCustomizer decorates registrations with the resolver/transformer
// chain described by a ChainConfig. Decoration order is fixed: version
// resolver (fixed strategy before content strategy), then the encoded
// resolver, then the app cache transformer.
//
// The version resolver is immutable after construction and shared
// across registrations. The caching wrapper is per registration (see
// Registration.ResourceChain) since cache keys are pattern-relative.
type chainCustomizer struct {
	cfg     ChainConfig
	version *resolver.VersionResolver
}

// newChainCustomizer compiles the strategy patterns once up front so
// Customize cannot fail.
func newChainCustomizer(cfg ChainConfig) (*chainCustomizer, error) {
	c := &chainCustomizer{cfg: cfg}
	strategy := cfg.Strategy
	if strategy.Fixed.Enabled || strategy.Content.Enabled {
		v := resolver.NewVersionResolver()
		if strategy.Fixed.Enabled {
			if err := v.AddFixedStrategy(strategy.Fixed.Version, strategy.Fixed.Paths...); err != nil {
				return nil, err
			}
		}
		if strategy.Content.Enabled {
			if err := v.AddContentStrategy(strategy.Content.Paths...); err != nil {
				return nil, err
			}
		}
		c.version = v
	}
	return c, nil
}

// Customize implements RegistrationCustomizer.
func (c *chainCustomizer) Customize(reg *Registration) {
	chain := reg.ResourceChain(c.cfg.Cache)
	if c.version != nil {
		chain.AddResolver(c.version)
	}
	if c.cfg.Compressed {
		chain.AddResolver(resolver.NewEncodedResolver())
	}
	if c.cfg.HTMLAppCache {
		chain.AddTransformer(transformer.NewAppCacheTransformer())
	}
}
