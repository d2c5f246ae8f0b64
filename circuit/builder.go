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

package circuit

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"

	"github.com/gomlx/qbind/qref"
)

// Builder constructs a Circuit template. Create it with New, declare the
// arguments with Positional and Auxiliary, append operations with Op and
// freeze the template with Done.
//
// Declaring an argument creates one qref.Ref per scalar element of its
// (possibly multidimensional) shape. Positional arguments share one
// flattened index space, assigned in declaration order; each auxiliary
// argument gets its own zero-based index space, keyed by the argument name.
//
// A Builder is not safe for concurrent use, and any use after Done panics.
type Builder struct {
	name string
	ops  []Operation

	numPositional int
	auxSizes      map[string]int
	done          bool
}

// New creates a Builder for a circuit template with the given name.
func New(name string) *Builder {
	return &Builder{
		name:     name,
		auxSizes: make(map[string]int),
	}
}

// ArgRefs holds the qref.Refs created for one declared argument: one Ref per
// scalar leaf of the argument's shape, in row-major order.
type ArgRefs struct {
	name string
	dims []int
	refs []qref.Ref
}

// Name of the argument, as declared.
func (a *ArgRefs) Name() string { return a.name }

// Dims returns the declared dimensions. Nil for a scalar argument.
func (a *ArgRefs) Dims() []int { return a.dims }

// Size returns the number of scalar elements (Refs) of the argument.
func (a *ArgRefs) Size() int { return len(a.refs) }

// Refs returns all the Refs of the argument, in row-major order. The
// returned slice is owned by ArgRefs and must not be modified.
func (a *ArgRefs) Refs() []qref.Ref { return a.refs }

// Ref returns the single Ref of a scalar argument. It panics if the argument
// was declared with dimensions.
func (a *ArgRefs) Ref() qref.Ref {
	if len(a.dims) != 0 {
		exceptions.Panicf("argument %q was declared with dimensions %v, use At to access its elements", a.name, a.dims)
	}
	return a.refs[0]
}

// At returns the Ref of the element at the given multidimensional indices.
// The number of indices must match the declared rank, and each index must be
// within its dimension.
func (a *ArgRefs) At(indices ...int) qref.Ref {
	if len(indices) != len(a.dims) {
		exceptions.Panicf("argument %q has rank %d, got %d index(es)", a.name, len(a.dims), len(indices))
	}
	flat := 0
	for axis, idx := range indices {
		if idx < 0 || idx >= a.dims[axis] {
			exceptions.Panicf("index %d out of range for axis %d of argument %q (dimensions %v)",
				idx, axis, a.name, a.dims)
		}
		flat = flat*a.dims[axis] + idx
	}
	return a.refs[flat]
}

// Positional declares a positional argument with the given dimensions (none
// for a scalar) and returns its Refs. The argument's scalars extend the
// flattened positional vector, continuing from previously declared
// positional arguments.
func (b *Builder) Positional(name string, dims ...int) *ArgRefs {
	b.assertBuilding()
	a := newArgRefs(name, dims, func(flat int, elemName string) qref.Ref {
		return qref.Positional(b.numPositional+flat, elemName)
	})
	b.numPositional += a.Size()
	return a
}

// Auxiliary declares a named (auxiliary) argument with the given dimensions
// (none for a scalar) and returns its Refs. The argument's value vector is
// addressed by the argument name, with indices local to it.
//
// Auxiliary arguments are the natural place for data placeholders: they
// always have to be supplied explicitly at execution time.
func (b *Builder) Auxiliary(name string, dims ...int) *ArgRefs {
	b.assertBuilding()
	if _, found := b.auxSizes[name]; found {
		exceptions.Panicf("named argument %q declared twice in circuit %q", name, b.name)
	}
	a := newArgRefs(name, dims, func(flat int, elemName string) qref.Ref {
		return qref.Auxiliary(name, flat, elemName)
	})
	b.auxSizes[name] = a.Size()
	return a
}

// newArgRefs flattens the declared shape, creating one Ref per scalar leaf
// with a structured element name ("x", "x[1]", "w[1][0]", ...).
func newArgRefs(name string, dims []int, makeRef func(flat int, elemName string) qref.Ref) *ArgRefs {
	size := 1
	for _, dim := range dims {
		if dim <= 0 {
			exceptions.Panicf("argument %q: invalid dimension %d in %v, dimensions must be positive", name, dim, dims)
		}
		size *= dim
	}
	a := &ArgRefs{name: name, dims: dims, refs: make([]qref.Ref, 0, size)}
	for flat := 0; flat < size; flat++ {
		a.refs = append(a.refs, makeRef(flat, elementName(name, dims, flat)))
	}
	return a
}

// elementName builds the structured name of the flat-th element, undoing the
// row-major flattening: elementName("w", []int{2, 3}, 4) == "w[1][1]".
func elementName(name string, dims []int, flat int) string {
	if len(dims) == 0 {
		return name
	}
	indices := make([]int, len(dims))
	for axis := len(dims) - 1; axis >= 0; axis-- {
		indices[axis] = flat % dims[axis]
		flat /= dims[axis]
	}
	for _, idx := range indices {
		name += fmt.Sprintf("[%d]", idx)
	}
	return name
}

// Op appends an operation acting on the given wires, with the given
// parameters. Parameters may be Const values, Refs of declared arguments, or
// Refs composed with a scalar multiplier (Neg, Mul, Div). It returns the
// Builder so calls can be chained.
func (b *Builder) Op(name string, wires []int, params ...Param) *Builder {
	b.assertBuilding()
	b.ops = append(b.ops, Operation{Name: name, Wires: wires, Params: params})
	return b
}

// Done freezes the template and returns the built Circuit. The Builder must
// not be used afterward.
func (b *Builder) Done() *Circuit {
	b.assertBuilding()
	b.done = true
	return &Circuit{
		id:            uuid.New(),
		name:          b.name,
		ops:           b.ops,
		numPositional: b.numPositional,
		auxSizes:      b.auxSizes,
	}
}

func (b *Builder) assertBuilding() {
	if b == nil {
		exceptions.Panicf("circuit.Builder is nil")
	}
	if b.done {
		exceptions.Panicf("circuit %q was already built, Builder cannot be reused after Done", b.name)
	}
}
