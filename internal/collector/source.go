/*
Copyright 2025 The dietopt Authors

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

package collector

import (
	"context"
)

// CatalogSource is the interface for pluggable catalog sources.
// Implementations include CSVSource and StaticSource.
//
// Every Load returns a fresh Snapshot; sources never hand out state that a
// previous Load returned, so concurrent runs can each work on their own copy.
type CatalogSource interface {
	// Name returns the unique name of this source (e.g., "csv", "static").
	Name() string

	// Load reads the food catalog and the requirement row and checks that
	// their nutrient columns line up.
	Load(ctx context.Context) (*Snapshot, error)
}
