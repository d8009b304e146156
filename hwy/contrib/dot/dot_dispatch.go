// Copyright 2025 go-highway Authors
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

package dot

import "github.com/ajroetker/go-qconv/hwy"

// InnerProduct is a signed 8-bit inner product with 32-bit accumulation.
//
// Implementations must return Σ a[i]*b[i] over min(len(a), len(b))
// elements using wrapping int32 arithmetic, so that every implementation
// agrees bit for bit.
type InnerProduct interface {
	DotInt8(a, b []int8) int32
	Name() string
}

var defaultImpl InnerProduct = Portable{}

func init() {
	if hwy.NoSimdEnv() {
		return
	}
	if hwy.CurrentLevel().Vector() {
		defaultImpl = Lanes{}
	}
}

// Default returns the inner-product strategy selected for this CPU.
//
// Both strategies are plain Go. Lanes is picked when the dispatch level has
// vector registers only because its 8-lane accumulation mirrors that
// register layout; it is not a separate instruction-set path.
func Default() InnerProduct {
	return defaultImpl
}

// ByName returns the strategy with the given name ("portable" or "lanes").
func ByName(name string) (InnerProduct, bool) {
	switch name {
	case Portable{}.Name():
		return Portable{}, true
	case Lanes{}.Name():
		return Lanes{}, true
	}
	return nil, false
}

// All returns every available strategy, in a fixed order.
func All() []InnerProduct {
	return []InnerProduct{Portable{}, Lanes{}}
}
