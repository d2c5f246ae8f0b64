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

package qref_test

import (
	"fmt"
	"testing"

	. "github.com/gomlx/qbind/qref"
	"github.com/stretchr/testify/require"
)

func TestConstruction(t *testing.T) {
	r := Positional(1, "a")
	require.Equal(t, 1, r.Index())
	require.Equal(t, "a", r.Name())
	require.Equal(t, "", r.BaseName())
	require.False(t, r.IsAuxiliary())
	require.Equal(t, 1.0, r.Multiplier())

	k := Auxiliary("x", 0, "x[0]")
	require.Equal(t, 0, k.Index())
	require.Equal(t, "x", k.BaseName())
	require.True(t, k.IsAuxiliary())
	require.Equal(t, 1.0, k.Multiplier())

	require.Panics(t, func() { Positional(-1, "bad") })
	require.Panics(t, func() { Auxiliary("x", -1, "bad") })
	require.Panics(t, func() { Auxiliary("", 0, "bad") })
}

func TestArithmetic(t *testing.T) {
	r := Positional(3, "a")

	// Double negation round-trips.
	require.Equal(t, r, r.Neg().Neg())
	require.Equal(t, -1.0, r.Neg().Multiplier())

	// Multiplier composition is associative.
	require.InDelta(t, r.Mul(6).Multiplier(), r.Mul(2).Mul(3).Multiplier(), 1e-12)

	// Division is the inverse of multiplication.
	require.InDelta(t, r.Multiplier(), r.Div(7).Mul(7).Multiplier(), 1e-12)

	// The receiver is never mutated: r is shared and must stay intact.
	_ = r.Mul(100)
	_ = r.Neg()
	_ = r.Div(4)
	require.Equal(t, 1.0, r.Multiplier())

	require.Panics(t, func() { r.Div(0) })
}

func TestEquality(t *testing.T) {
	r := Positional(1, "a")
	require.Equal(t, Positional(1, "a"), r)

	// Changing any coordinate breaks equality.
	require.NotEqual(t, Positional(2, "a"), r)
	require.NotEqual(t, Positional(1, "b"), r)
	require.NotEqual(t, Positional(1, "a").Mul(2), r)

	// Same index/name in the other namespace is a different reference.
	require.NotEqual(t, Auxiliary("x", 1, "a"), r)

	// Auxiliary references with different keys are distinct, even with
	// matching name, index and multiplier.
	require.NotEqual(t, Auxiliary("x", 1, "a"), Auxiliary("y", 1, "a"))
}

func TestValue(t *testing.T) {
	b := NewBindings([]float64{2.0, 5.0}, map[string][]float64{"x": {7.0, 9.0}})

	require.Equal(t, 5.0, Positional(1, "a").Value(b))
	require.Equal(t, -10.0, Positional(1, "a").Mul(-2).Value(b))
	require.Equal(t, 7.0, Auxiliary("x", 0, "x[0]").Value(b))
	require.Equal(t, 4.5, Auxiliary("x", 1, "x[1]").Div(2).Value(b))

	// Resolution is idempotent.
	r := Positional(0, "a")
	require.Equal(t, r.Value(b), r.Value(b))

	// Unpopulated namespace, out-of-range index and nil bindings are all
	// fatal usage errors.
	require.Panics(t, func() { Auxiliary("y", 0, "y[0]").Value(b) })
	require.Panics(t, func() { Positional(2, "c").Value(b) })
	require.Panics(t, func() { Auxiliary("x", 2, "x[2]").Value(b) })
	require.Panics(t, func() { Positional(0, "a").Value(nil) })
}

func TestString(t *testing.T) {
	require.Equal(t, "Ref(a:1)", Positional(1, "a").String())
	require.Equal(t, "Ref(a:1 * 2)", Positional(1, "a").Mul(2).String())
}

func TestRender(t *testing.T) {
	b := NewBindings([]float64{3.14159}, nil)
	r := Positional(0, "a")

	// Name mode: bare name for multiplier 1, rounded-prefix otherwise.
	require.Equal(t, "a", r.Render(nil, true))
	require.Equal(t, "0.5*a", r.Mul(0.5).Render(nil, true))
	require.Equal(t, "-1*a", r.Neg().Render(nil, true))

	// Value mode: resolved value rounded to 3 decimal places.
	require.Equal(t, "3.142", r.Render(b, false))
	require.Equal(t, "6.283", r.Mul(2).Render(b, false))
}

// TestSharedTemplate checks that a reference embedded in several places of a
// template can be composed without aliasing: the scaled copy and the
// original resolve independently from the same bindings.
func TestSharedTemplate(t *testing.T) {
	r := Positional(0, "p")
	scaled := r.Mul(3)
	fmt.Printf("\tshared=%s, scaled=%s\n", r, scaled)

	b := NewBindings([]float64{1.7}, nil)
	require.InDelta(t, 3.0, scaled.Value(b)/r.Value(b), 1e-12)

	require.NotEqual(t, r, scaled)
	require.Equal(t, Positional(0, "p"), r)
	require.Equal(t, Positional(0, "p").Mul(3), scaled)
}
