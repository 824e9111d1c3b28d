/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package builder

import (
	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/registry"
	"dirpx.dev/mrx/resolver"
	"dirpx.dev/mrx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration and pre-existing registry. If a pre-existing registry is
// provided, its class registrations (member factories and display names) are
// carried into the new registry; member sets are rebuilt lazily on first use.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if prev != nil {
		for _, e := range prev.Entries() {
			if e.Factory != nil {
				_ = nreg.Register(e.Type, e.Factory)
			}
			if e.Name != "" {
				_ = nreg.RegisterName(e.Type, e.Name)
			}
		}
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver based on the provided
// configuration and registry. Resolution priority is fixed: Namer fast path,
// then registered display names, then the reflect-derived fallback.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}
