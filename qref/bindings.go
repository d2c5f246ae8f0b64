/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package qref

import (
	. "github.com/gomlx/exceptions"

	"github.com/gomlx/qbind/types/xslices"
)

// Bindings holds the argument values of one execution of a circuit template:
// the flattened positional-argument vector, and one flattened vector per
// supplied auxiliary (named) argument.
//
// Bindings are created whole, once per execution, and never mutated
// incrementally -- the next execution gets a fresh Bindings. Because the
// tables are scoped to the execution instead of being process-wide, the same
// template can be evaluated concurrently with different Bindings.
type Bindings struct {
	positional []float64
	auxiliary  map[string][]float64
}

// NewBindings creates the value tables for one execution.
//
// It copies the given slices, so the caller may reuse its buffers after the
// call. auxiliary may be nil when no named arguments are supplied.
func NewBindings(positional []float64, auxiliary map[string][]float64) *Bindings {
	b := &Bindings{positional: xslices.Copy(positional)}
	if len(auxiliary) > 0 {
		b.auxiliary = make(map[string][]float64, len(auxiliary))
		for key, values := range auxiliary {
			b.auxiliary[key] = xslices.Copy(values)
		}
	}
	return b
}

// Positional returns the bound value of the index-th flattened positional
// scalar. It panics if index is out of range of what was bound.
func (b *Bindings) Positional(index int) float64 {
	if index < 0 || index >= len(b.positional) {
		Panicf("positional parameter index %d out of range: %d positional value(s) bound for this execution",
			index, len(b.positional))
	}
	return b.positional[index]
}

// Auxiliary returns the bound value of the index-th flattened scalar of the
// named argument key.
//
// It panics if key was never supplied for this execution ("missing named
// parameter"), or if index is out of range of the supplied vector.
func (b *Bindings) Auxiliary(key string, index int) float64 {
	values, found := b.auxiliary[key]
	if !found {
		Panicf("missing named parameter %q: it was not supplied for the current execution", key)
	}
	if index < 0 || index >= len(values) {
		Panicf("index %d out of range for named parameter %q: %d value(s) bound for this execution",
			index, key, len(values))
	}
	return values[index]
}

// NumPositional returns the number of positional scalars bound.
func (b *Bindings) NumPositional() int { return len(b.positional) }

// HasAuxiliary returns whether values were supplied for the named argument
// key.
func (b *Bindings) HasAuxiliary(key string) bool {
	_, found := b.auxiliary[key]
	return found
}

// AuxiliaryKeys returns the sorted keys of the auxiliary arguments supplied
// for this execution.
func (b *Bindings) AuxiliaryKeys() []string {
	return xslices.SortedKeys(b.auxiliary)
}
