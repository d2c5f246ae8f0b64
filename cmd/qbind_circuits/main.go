// qbind_circuits builds a demo circuit template, draws it, and drives many
// executions of it with random argument values, reporting a small summary.
//
// It exists to exercise the library end-to-end from the command line:
//
//	go run ./cmd/qbind_circuits -runs 10000
//	go run ./cmd/qbind_circuits -names
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/gomlx/qbind/circuit"
	"github.com/gomlx/qbind/qref"
	"github.com/gomlx/qbind/ui/commandline"
)

var (
	flagNames = flag.Bool("names", false, "Render parameter names instead of resolved values.")
	flagRuns  = flag.Int("runs", 1000, "Number of executions with random argument values.")
	flagSeed  = flag.Int64("seed", 42, "Seed for the random argument values.")
)

// demoCircuit builds a small entangling-rotations template: two positional
// rotation angles (the trainable parameters) and a 2-element "data" named
// argument (the data placeholder).
func demoCircuit() *circuit.Circuit {
	b := circuit.New("entangling-rotations")
	theta := b.Positional("theta", 2)
	data := b.Auxiliary("data", 2)
	b.Op("RX", []int{0}, theta.At(0)).
		Op("RY", []int{1}, theta.At(1).Mul(0.5)).
		Op("CNOT", []int{0, 1}).
		Op("RZ", []int{1}, theta.At(0).Neg()).
		Op("PhaseShift", []int{0}, data.At(0), circuit.Const(math.Pi/4)).
		Op("RX", []int{1}, data.At(1).Div(2))
	return b.Done()
}

// tallyEngine counts the operations and resolved parameters it is fed.
type tallyEngine struct {
	ops, params int
}

func (e *tallyEngine) Apply(_ circuit.Operation, params []float64) error {
	e.ops++
	e.params += len(params)
	return nil
}

var titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 1, 0, 1)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := demoCircuit()
	fmt.Println(c)

	// Draw the template once, with example values bound.
	var b *qref.Bindings
	if !*flagNames {
		b = must.M1(c.Bind([]float64{0.3, 0.7}, map[string][]float64{"data": {0.1, 0.9}}))
	}
	fmt.Println(commandline.DrawCircuit(c, b, *flagNames))

	// Execute the template many times, with fresh random values each time.
	engine := &tallyEngine{}
	exec := circuit.NewExec(c, engine)
	rng := rand.New(rand.NewSource(*flagSeed))
	bar := progressbar.NewOptions(*flagRuns,
		progressbar.OptionSetDescription("executing"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionShowCount())
	for run := 0; run < *flagRuns; run++ {
		theta := []float64{rng.NormFloat64(), rng.NormFloat64()}
		data := []float64{rng.Float64(), rng.Float64()}
		must.M(exec.CallWithAux(map[string]any{"data": data}, theta))
		must.M(bar.Add(1))
	}
	fmt.Println()

	fmt.Println(titleStyle.Render("Summary"))
	table := lgtable.New().Border(lipgloss.NormalBorder())
	table.Row("executions", humanize.Comma(int64(exec.NumCalls())))
	table.Row("operations applied", humanize.Comma(int64(engine.ops)))
	table.Row("parameters resolved", humanize.Comma(int64(engine.params)))
	fmt.Println(table.Render())
}
