package commandline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/qbind/circuit"
)

func buildTestCircuit() *circuit.Circuit {
	b := circuit.New("drawer-test")
	theta := b.Positional("theta", 2)
	b.Op("RX", []int{0}, theta.At(0)).
		Op("RY", []int{1}, theta.At(1).Mul(0.5)).
		Op("CNOT", []int{0, 1})
	return b.Done()
}

func TestDrawCircuitNames(t *testing.T) {
	c := buildTestCircuit()
	drawing := DrawCircuit(c, nil, true)
	fmt.Println(drawing)

	require.Contains(t, drawing, "drawer-test")
	require.Contains(t, drawing, "RX")
	require.Contains(t, drawing, "CNOT")
	require.Contains(t, drawing, "theta[0]")
	require.Contains(t, drawing, "0.5*theta[1]")
}

func TestDrawCircuitValues(t *testing.T) {
	c := buildTestCircuit()
	b, err := c.Bind([]float64{3.14159, 1.0}, nil)
	require.NoError(t, err)

	drawing := DrawCircuit(c, b, false)
	fmt.Println(drawing)
	require.Contains(t, drawing, "3.142")
	require.Contains(t, drawing, "0.5")

	// Without bindings, value mode falls back to names.
	drawing = DrawCircuit(c, nil, false)
	require.Contains(t, drawing, "theta[0]")
}
