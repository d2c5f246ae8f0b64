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

// Package qref implements references to circuit parameters whose values are
// only known at execution time.
//
// A circuit template is built once: every scalar element of its arguments is
// wrapped in a Ref, and the Refs are embedded into the template's operations
// in place of literal numbers. At each execution the caller publishes the
// current argument values in a Bindings object, and every Ref resolves itself
// against it -- scaled by the Ref's multiplier. The same template can this way
// be executed many times, each time with different values.
//
// Refs address one of two disjoint namespaces:
//
//   - Positional: an index into the flattened vector of positional-argument
//     scalars for the execution.
//   - Auxiliary: a named argument's own flattened vector, addressed by the
//     argument key plus an index within that key's vector.
//
// The constructor used (Positional or Auxiliary) fixes the namespace for the
// lifetime of the Ref.
//
// Refs are immutable value types: the arithmetic methods (Neg, Mul, Div)
// return new Refs and never change the receiver, so a Ref that appears in
// several places of a shared template cannot be corrupted by composing it
// somewhere else. Refs are comparable, and `==` is the intended equality:
// it compares name, index, addressing namespace (including the auxiliary
// key) and multiplier.
package qref

import (
	"fmt"
	"math"
	"strconv"

	. "github.com/gomlx/exceptions"
)

// Ref is a reference to one scalar circuit parameter (or one element of a
// data placeholder) with a non-fixed value.
//
// It carries an optional scalar multiplier, applied to the resolved value.
// Refs support no arithmetic other than composing that multiplier: there is
// no Ref+Ref or Ref*Ref, a Ref is always linear in its one parameter.
//
// Create Refs with Positional or Auxiliary. The zero Ref is not valid.
type Ref struct {
	index    int
	name     string
	baseName string // Non-empty iff the Ref addresses an auxiliary argument.
	mult     float64
}

// Positional creates a Ref to the index-th scalar of the flattened
// positional-argument vector. The structured name is used for display and
// equality only, never for lookup.
//
// It panics if index is negative.
func Positional(index int, name string) Ref {
	if index < 0 {
		Panicf("qref.Positional(index=%d, name=%q): index must be non-negative", index, name)
	}
	return Ref{index: index, name: name, mult: 1}
}

// Auxiliary creates a Ref to the index-th scalar of the flattened value
// vector of the named argument baseName.
//
// It panics if baseName is empty or index is negative.
func Auxiliary(baseName string, index int, name string) Ref {
	if baseName == "" {
		Panicf("qref.Auxiliary(index=%d, name=%q): baseName must not be empty", index, name)
	}
	if index < 0 {
		Panicf("qref.Auxiliary(baseName=%q, index=%d, name=%q): index must be non-negative", baseName, index, name)
	}
	return Ref{index: index, name: name, baseName: baseName, mult: 1}
}

// Index returns the position this Ref addresses within its value vector.
func (r Ref) Index() int { return r.index }

// Name returns the structured name of the parameter, e.g. "x" or "w[1][0]".
// It may be empty.
func (r Ref) Name() string { return r.name }

// BaseName returns the key of the auxiliary argument this Ref addresses, or
// "" for positional Refs.
func (r Ref) BaseName() string { return r.baseName }

// IsAuxiliary returns whether the Ref addresses an auxiliary (named)
// argument, as opposed to the positional-argument vector.
func (r Ref) IsAuxiliary() bool { return r.baseName != "" }

// Multiplier returns the scalar coefficient applied to the resolved value.
// It is 1 for newly constructed Refs.
func (r Ref) Multiplier() float64 { return r.mult }

// Neg returns a new Ref with the multiplier negated.
func (r Ref) Neg() Ref {
	r.mult = -r.mult
	return r
}

// Mul returns a new Ref with the multiplier multiplied by scalar.
//
// Multiplication by a plain scalar commutes, there is no separate left form.
func (r Ref) Mul(scalar float64) Ref {
	r.mult *= scalar
	return r
}

// Div returns a new Ref with the multiplier divided by scalar. Only the Ref
// can be the dividend -- dividing a scalar by a Ref is not an operation.
//
// It panics if scalar is zero.
func (r Ref) Div(scalar float64) Ref {
	if scalar == 0 {
		Panicf("division by zero in Ref.Div, for %s", r)
	}
	r.mult /= scalar
	return r
}

// Value resolves the Ref against the given Bindings and returns the bound
// value scaled by the Ref's multiplier.
//
// It is pure: repeated calls with the same Bindings return the same value.
// It panics if b is nil, if the Ref's auxiliary key was not supplied for
// this execution, or if the index is out of range of the bound vector --
// all of those indicate a construction/binding mismatch, not a recoverable
// condition.
func (r Ref) Value(b *Bindings) float64 {
	if b == nil {
		Panicf("resolving %s with nil Bindings: parameter values were never published for this execution", r)
	}
	if !r.IsAuxiliary() {
		return b.Positional(r.index) * r.mult
	}
	return b.Auxiliary(r.baseName, r.index) * r.mult
}

// String implements fmt.Stringer. The multiplier is only included when it is
// not 1.
func (r Ref) String() string {
	if r.mult != 1 {
		return fmt.Sprintf("Ref(%s:%d * %v)", r.name, r.index, r.mult)
	}
	return fmt.Sprintf("Ref(%s:%d)", r.name, r.index)
}

// Render returns a short human-readable rendering of the Ref, as used by
// circuit drawers.
//
// By default it renders the resolved value, rounded to 3 decimal places --
// b must then hold the current execution's values. If showNameOnly is true
// it renders the symbolic name instead, prefixed with the rounded multiplier
// (as in "0.5*x") when the multiplier is not exactly 1; b may then be nil.
func (r Ref) Render(b *Bindings, showNameOnly bool) string {
	if !showNameOnly {
		return formatRounded(r.Value(b))
	}
	if r.mult != 1 {
		return formatRounded(r.mult) + "*" + r.name
	}
	return r.name
}

// formatRounded formats v rounded to 3 decimal places, without trailing
// zeros.
func formatRounded(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // Normalizes -0.
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
