package profile

import (
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Table writes rows under header as an ASCII table.
func Table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.AppendBulk(rows)
	t.Render()
}

// Chart plots series as an ASCII line chart. An empty series yields "".
func Chart(series []float64, caption string) string {
	if len(series) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(10), asciigraph.Caption(caption)}
	if len(series) > 80 {
		opts = append(opts, asciigraph.Width(80))
	}
	return asciigraph.Plot(series, opts...)
}
