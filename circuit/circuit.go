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

// Package circuit builds and executes parameterized circuit templates.
//
// A template is built once, with circuit.New: the builder wraps every scalar
// element of the declared arguments in a qref.Ref, and operations take those
// Refs (or plain Const values) as parameters. The template is then executed
// many times, each time against freshly bound argument values:
//
//	b := circuit.New("rotations")
//	theta := b.Positional("theta", 2)
//	b.Op("RX", []int{0}, theta.At(0))
//	b.Op("RY", []int{1}, theta.At(1).Mul(0.5))
//	c := b.Done()
//
//	bindings, err := c.Bind([]float64{0.3, 0.7}, nil)
//	...
//	err = c.Run(engine, bindings)
//
// The binding of values is scoped per execution (see qref.Bindings), so the
// same template may be evaluated concurrently with different values.
package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gomlx/qbind/qref"
	"github.com/gomlx/qbind/types/xslices"
)

// Param is one operation parameter of a circuit template: either a Const,
// fixed at construction, or a qref.Ref resolved at each execution.
type Param interface {
	// Value resolves the parameter against the bindings of one execution.
	Value(b *qref.Bindings) float64

	// Render returns a short human-readable form of the parameter, either
	// its resolved value or its symbolic name. See qref.Ref.Render.
	Render(b *qref.Bindings, showNameOnly bool) string
}

// Static check: the two Param implementations.
var (
	_ Param = Const(0)
	_ Param = qref.Ref{}
)

// Const is a literal operation parameter, fixed when the template is built.
type Const float64

// Value implements Param. The bindings are not consulted.
func (c Const) Value(_ *qref.Bindings) float64 { return float64(c) }

// Render implements Param. A Const has no name, so both modes render the
// value rounded to 3 decimal places.
func (c Const) Render(_ *qref.Bindings, _ bool) string {
	v := math.Round(float64(c)*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Operation is one operation of a circuit template: a name, the wires it
// acts on and its parameters, which may mix Const values and qref.Refs.
type Operation struct {
	Name   string
	Wires  []int
	Params []Param
}

// String implements fmt.Stringer, rendering parameters by name.
func (op Operation) String() string {
	params := xslices.Map(op.Params, func(p Param) string { return p.Render(nil, true) })
	return fmt.Sprintf("%s(%s)@%v", op.Name, strings.Join(params, ", "), op.Wires)
}

// Circuit is a frozen circuit template: a sequence of operations with
// parameters referring to argument values bound only at execution time.
//
// Build it with New (see Builder). A Circuit is immutable and safe for
// concurrent use.
type Circuit struct {
	id   uuid.UUID
	name string
	ops  []Operation

	numPositional int
	auxSizes      map[string]int
}

// Id returns the unique id assigned to the template when it was built.
func (c *Circuit) Id() uuid.UUID { return c.id }

// Name of the circuit, given at construction.
func (c *Circuit) Name() string { return c.name }

// Operations of the template, in execution order. The returned slice is
// owned by the Circuit and must not be modified.
func (c *Circuit) Operations() []Operation { return c.ops }

// NumOperations returns the number of operations in the template.
func (c *Circuit) NumOperations() int { return len(c.ops) }

// NumPositional returns the size of the flattened positional-argument vector
// the template was built with.
func (c *Circuit) NumPositional() int { return c.numPositional }

// AuxiliaryKeys returns the sorted names of the auxiliary (named) arguments
// declared at construction.
func (c *Circuit) AuxiliaryKeys() []string { return xslices.SortedKeys(c.auxSizes) }

// AuxiliarySize returns the flattened size of the named argument, or 0 if no
// such argument was declared.
func (c *Circuit) AuxiliarySize(key string) int { return c.auxSizes[key] }

// String implements fmt.Stringer.
func (c *Circuit) String() string {
	return fmt.Sprintf("Circuit %q: %d op(s), %d positional parameter(s), %d named argument(s)",
		c.name, len(c.ops), c.numPositional, len(c.auxSizes))
}

// Bind validates the given argument values against the shapes recorded at
// construction and publishes them as the value tables for one execution.
//
// positional must hold exactly the number of scalars declared with
// Builder.Positional, in declaration order. auxiliary must hold one value
// vector per declared named argument -- a named argument is never silently
// defaulted, not supplying it is an error.
func (c *Circuit) Bind(positional []float64, auxiliary map[string][]float64) (*qref.Bindings, error) {
	if len(positional) != c.numPositional {
		return nil, errors.Errorf("circuit %q takes %d positional scalar(s), got %d",
			c.name, c.numPositional, len(positional))
	}
	for key, values := range auxiliary {
		size, found := c.auxSizes[key]
		if !found {
			return nil, errors.Errorf("circuit %q has no named argument %q", c.name, key)
		}
		if len(values) != size {
			return nil, errors.Errorf("named argument %q of circuit %q takes %d scalar(s), got %d",
				key, c.name, size, len(values))
		}
	}
	for _, key := range c.AuxiliaryKeys() {
		if _, found := auxiliary[key]; !found {
			return nil, errors.Errorf("named argument %q of circuit %q was not supplied -- "+
				"named arguments always have to be passed explicitly", key, c.name)
		}
	}
	return qref.NewBindings(positional, auxiliary), nil
}

// Resolve returns the numeric parameters of every operation of the template,
// resolved against the bindings of one execution. One slice per operation,
// in template order.
//
// It panics (see qref.Ref.Value) if the bindings don't match what the
// template was built with.
func (c *Circuit) Resolve(b *qref.Bindings) [][]float64 {
	resolved := make([][]float64, len(c.ops))
	for ii, op := range c.ops {
		resolved[ii] = xslices.Map(op.Params, func(p Param) float64 { return p.Value(b) })
	}
	return resolved
}

// Engine executes operations whose parameters have been fully resolved to
// numbers. It is the boundary to whatever actually runs the circuit --
// a simulator, a device driver or a Recorder in tests.
type Engine interface {
	Apply(op Operation, params []float64) error
}

// Run resolves each operation's parameters against b and feeds the
// operations, in template order, to the engine. It stops at the first engine
// error.
func (c *Circuit) Run(engine Engine, b *qref.Bindings) error {
	for _, op := range c.ops {
		params := xslices.Map(op.Params, func(p Param) float64 { return p.Value(b) })
		if err := engine.Apply(op, params); err != nil {
			return errors.WithMessagef(err, "circuit %q, operation %q", c.name, op.Name)
		}
	}
	return nil
}

// Recorder is an Engine that records the operations it is asked to apply,
// along with their resolved parameters. Used in tests and to inspect what a
// template resolves to under a given set of bindings.
type Recorder struct {
	Ops    []Operation
	Params [][]float64
}

// Apply implements Engine.
func (r *Recorder) Apply(op Operation, params []float64) error {
	r.Ops = append(r.Ops, op)
	r.Params = append(r.Params, params)
	return nil
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.Params = nil
}
