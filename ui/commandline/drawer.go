// Package commandline renders circuit templates for the command-line.
//
// It draws a template as a table with one row per operation, with the
// operation's parameters rendered either symbolically ("0.5*theta[1]") or as
// the values they resolve to under a given set of bindings.
package commandline

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"

	"github.com/gomlx/qbind/circuit"
	"github.com/gomlx/qbind/qref"
	"github.com/gomlx/qbind/types/xslices"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	tableBorderColor = "#705090"
)

// tableBorder picks the border set according to what the terminal supports.
func tableBorder() lipgloss.Border {
	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		return lipgloss.NormalBorder()
	}
	return lipgloss.RoundedBorder()
}

func newTable() *lgtable.Table {
	return lgtable.New().
		Border(tableBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == 1 {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 1 {
				s = s.Align(lipgloss.Center)
			}
			return
		})
}

// DrawCircuit renders the template as a table, one row per operation, and
// returns it as a string ready to be printed.
//
// With showNames parameters are rendered symbolically, and b may be nil.
// Otherwise parameters render the values they resolve to against b -- if b
// is nil in that case, it falls back to symbolic rendering with a warning.
func DrawCircuit(c *circuit.Circuit, b *qref.Bindings, showNames bool) string {
	if !showNames && b == nil {
		klog.Warningf("DrawCircuit(%q): no bindings given, falling back to rendering parameter names", c.Name())
		showNames = true
	}
	table := newTable().Headers("Operation", "Wires", "Parameters")
	for _, op := range c.Operations() {
		params := xslices.Map(op.Params, func(p circuit.Param) string {
			return p.Render(b, showNames)
		})
		table.Row(op.Name, fmt.Sprint(op.Wires), strings.Join(params, ", "))
	}
	return titleStyle.Render(c.Name()) + "\n" + table.Render() + "\n"
}
