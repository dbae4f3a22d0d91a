// Package report renders projected series and estate valuations for people:
// aligned text tables, CSV for spreadsheets and Org-mode summaries.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

// PrintSeries writes one line per projected year.
func PrintSeries(w io.Writer, series []plan.SimulationResult) {
	fmt.Fprintln(w, "==================================================================")
	fmt.Fprintln(w, " Projection (USD, end of year)")
	fmt.Fprintln(w, "==================================================================")
	fmt.Fprintf(w, "%-6s %4s %18s %16s %16s\n", "Year", "Age", "Total Assets", "Pension Income", "Drawdowns")
	fmt.Fprintln(w, "------------------------------------------------------------------")
	for _, r := range series {
		fmt.Fprintf(w, "%-6d %4d %18s %16s %16s\n",
			r.Year, r.Age,
			market.Format(r.TotalAssets, plan.USD),
			market.Format(sum(r.PensionIncomes), plan.USD),
			market.Format(sum(r.AssetDrawdowns), plan.USD),
		)
	}
	if n := len(series); n > 0 {
		last := series[n-1]
		fmt.Fprintln(w, "------------------------------------------------------------------")
		fmt.Fprintf(w, "%d years, %d to %d; final total %s\n",
			n, series[0].Year, last.Year, market.Format(last.TotalAssets, plan.USD))
	}
}

// WriteSeriesCSV writes the series with one column per asset balance, asset
// drawdown and pension income. Amounts are rounded to cents.
func WriteSeriesCSV(w io.Writer, series []plan.SimulationResult) error {
	assets := keys(series, func(r plan.SimulationResult) map[string]float64 { return r.AssetBalances })
	pensions := keys(series, func(r plan.SimulationResult) map[string]float64 { return r.PensionIncomes })

	header := []string{"year", "age", "total_assets"}
	for _, n := range assets {
		header = append(header, "asset:"+n)
	}
	for _, n := range assets {
		header = append(header, "drawdown:"+n)
	}
	for _, n := range pensions {
		header = append(header, "pension:"+n)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range series {
		row := []string{strconv.Itoa(r.Year), strconv.Itoa(r.Age), cents(r.TotalAssets)}
		for _, n := range assets {
			row = append(row, cents(r.AssetBalances[n]))
		}
		for _, n := range assets {
			row = append(row, cents(r.AssetDrawdowns[n]))
		}
		for _, n := range pensions {
			row = append(row, cents(r.PensionIncomes[n]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cents(x float64) string {
	return market.Round(x, plan.USD).StringFixed(2)
}

func sum(m map[string]float64) float64 {
	var t float64
	for _, v := range m {
		t += v
	}
	return t
}

// keys returns the sorted union of names across every row.
func keys(series []plan.SimulationResult, pick func(plan.SimulationResult) map[string]float64) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range series {
		for k := range pick(r) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
