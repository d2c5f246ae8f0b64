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
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Exec drives repeated executions of one Circuit template against an Engine.
//
// It takes the raw (possibly nested) argument values of each call, flattens
// them, binds them as the execution's value tables and runs the template.
// Resolution panics from the core (missing named parameter, index out of
// range) are converted to errors at this boundary.
//
// Example:
//
//	exec := circuit.NewExec(c, engine)
//	err := exec.Call([]float64{0.3, 0.7})
//	err = exec.Call([][]float64{{0.1, 0.2}, {0.3, 0.4}})
//
// Exec is safe for concurrent calls: each call builds its own bindings.
type Exec struct {
	circuit *Circuit
	engine  Engine
	name    string

	mu       sync.Mutex
	numCalls int
}

// NewExec creates an Exec that runs the given template on the given engine.
func NewExec(circuit *Circuit, engine Engine) *Exec {
	return &Exec{
		circuit: circuit,
		engine:  engine,
		name:    fmt.Sprintf("Exec:%s", circuit.Name()),
	}
}

// SetName sets the name of the Exec, used to prefix its errors. It returns
// a reference to itself so calls can be cascaded.
func (e *Exec) SetName(name string) *Exec {
	e.name = name
	return e
}

// Name returns the Exec name.
func (e *Exec) Name() string { return e.name }

// Circuit returns the template this Exec runs.
func (e *Exec) Circuit() *Circuit { return e.circuit }

// NumCalls returns how many executions completed successfully so far.
func (e *Exec) NumCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.numCalls
}

// Call executes the template once with the given positional argument values
// and no named arguments. Each argument may be a numeric scalar or a nested
// slice; arguments are flattened in order and must add up to exactly the
// positional scalars the template was declared with.
func (e *Exec) Call(args ...any) error {
	return e.CallWithAux(nil, args...)
}

// CallWithAux executes the template once with the given positional and named
// argument values. Named values may also be scalars or nested slices; every
// named argument declared at construction must be present in aux.
func (e *Exec) CallWithAux(aux map[string]any, args ...any) error {
	var positional []float64
	for ii, arg := range args {
		flat, _, err := Flatten(arg)
		if err != nil {
			return errors.WithMessagef(err, "%s: argument #%d", e.name, ii)
		}
		positional = append(positional, flat...)
	}
	auxValues := make(map[string][]float64, len(aux))
	for key, value := range aux {
		flat, _, err := Flatten(value)
		if err != nil {
			return errors.WithMessagef(err, "%s: named argument %q", e.name, key)
		}
		auxValues[key] = flat
	}

	b, err := e.circuit.Bind(positional, auxValues)
	if err != nil {
		return errors.WithMessagef(err, "%s", e.name)
	}
	var runErr error
	err = exceptions.TryCatch[error](func() { runErr = e.circuit.Run(e.engine, b) })
	if err == nil {
		err = runErr
	}
	if err != nil {
		return errors.WithMessagef(err, "%s", e.name)
	}

	e.mu.Lock()
	e.numCalls++
	e.mu.Unlock()
	return nil
}
