// internal/summary/summary.go
package summary

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"idr/internal/copula"
	"idr/internal/output"
)

// Render writes the run summary table to the log stream: peak counts against
// both thresholds and, when the model was fitted, the final parameter set.
func Render(w io.Writer, stats output.Stats, softThreshold float64, fit *copula.Fit) error {
	pct := func(n int) string {
		if stats.Merged == 0 {
			return "0/0 (0.0%)"
		}
		return fmt.Sprintf("%d/%d (%.1f%%)", n, stats.Merged, 100*float64(n)/float64(stats.Merged))
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Append([]string{"Merged peaks", fmt.Sprintf("%d", stats.Merged)})
	table.Append([]string{"Reported peaks", pct(stats.Reported)})
	table.Append([]string{fmt.Sprintf("Peaks below IDR %.2f", softThreshold), pct(stats.PassingSoft)})
	if fit != nil {
		table.Append([]string{"Final mu", fmt.Sprintf("%.2f", fit.Params.Mu)})
		table.Append([]string{"Final sigma", fmt.Sprintf("%.2f", fit.Params.Sigma)})
		table.Append([]string{"Final rho", fmt.Sprintf("%.2f", fit.Params.Rho)})
		table.Append([]string{"Final mix weight", fmt.Sprintf("%.2f", fit.Params.P)})
		table.Append([]string{"EM iterations", fmt.Sprintf("%d", fit.Iterations)})
	}
	return table.Render()
}
