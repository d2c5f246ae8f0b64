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

package circuit_test

import (
	"testing"

	. "github.com/gomlx/qbind/circuit"
	"github.com/gomlx/qbind/qref"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestExecCall(t *testing.T) {
	c := buildRotations()
	recorder := &Recorder{}
	exec := NewExec(c, recorder)
	require.Equal(t, "Exec:rotations", exec.Name())
	require.Same(t, c, exec.Circuit())

	// Positional arguments may be supplied nested; they are flattened in
	// order.
	err := exec.CallWithAux(map[string]any{"data": []float64{0.1, 0.9}}, []float32{0.3, 0.7})
	require.NoError(t, err)
	require.Equal(t, 1, exec.NumCalls())
	require.Len(t, recorder.Ops, c.NumOperations())
	require.InDelta(t, 0.3, recorder.Params[0][0], 1e-6)

	// A second call rebinds everything.
	recorder.Reset()
	err = exec.CallWithAux(map[string]any{"data": [][]int{{1}, {9}}}, 3.0, 7.0)
	require.NoError(t, err)
	require.Equal(t, 2, exec.NumCalls())
	require.InDelta(t, 3.5, recorder.Params[1][0], 1e-12) // 0.5*theta[1]
	require.InDelta(t, 4.5, recorder.Params[4][0], 1e-12) // data[1]/2
}

func TestExecCallErrors(t *testing.T) {
	c := buildRotations()
	exec := NewExec(c, &Recorder{}).SetName("test")

	// Wrong number of positional scalars.
	err := exec.CallWithAux(map[string]any{"data": []float64{0.1, 0.9}}, 0.3)
	require.ErrorContains(t, err, "takes 2 positional scalar(s)")
	require.ErrorContains(t, err, "test")

	// Missing named argument.
	err = exec.Call(0.3, 0.7)
	require.ErrorContains(t, err, "was not supplied")

	// Unflattenable argument value.
	err = exec.CallWithAux(map[string]any{"data": "nope"}, 0.3, 0.7)
	require.ErrorContains(t, err, `named argument "data"`)

	require.Equal(t, 0, exec.NumCalls())
}

// TestExecResolutionPanics checks that a construction/binding mismatch --
// a reference addressing beyond what its own template declared -- surfaces
// as an error from Call, not as a panic.
func TestExecResolutionPanics(t *testing.T) {
	b := New("ghost")
	_ = b.Positional("x")
	b.Op("RX", []int{0}, qref.Positional(5, "ghost"))
	c := b.Done()

	exec := NewExec(c, &Recorder{})
	var err error
	require.NotPanics(t, func() { err = exec.Call(0.3) })
	require.ErrorContains(t, err, "out of range")
}

type failingEngine struct{}

func (failingEngine) Apply(op Operation, _ []float64) error {
	return errors.Errorf("engine rejected %q", op.Name)
}

func TestExecEngineError(t *testing.T) {
	c := buildRotations()
	exec := NewExec(c, failingEngine{})
	err := exec.CallWithAux(map[string]any{"data": []float64{0.1, 0.9}}, 0.3, 0.7)
	require.ErrorContains(t, err, `engine rejected "RX"`)
	require.Equal(t, 0, exec.NumCalls())
}
