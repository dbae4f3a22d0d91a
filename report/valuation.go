package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/rustyeddy/nestegg/estate"
	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

func PrintValuation(w io.Writer, rep estate.Report) {
	usd := func(x float64) string { return market.Format(x, plan.USD) }
	jpy := func(x float64) string { return market.Format(x, plan.JPY) }

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Estate Valuation %d\n", rep.Year)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Spouse Age:      %d\n", rep.SpouseAge)
	fmt.Fprintf(w, "Remaining Years: %d\n", rep.RemainingYears)
	fmt.Fprintf(w, "PV Factor:       %.4f\n", rep.PVFactor)
	fmt.Fprintf(w, "USD/JPY:         %.2f\n", rep.ExchangeRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pensions")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, p := range rep.Pensions {
		fmt.Fprintf(w, "%-20s %14s/yr %16s\n", p.Name, usd(p.AnnualAmountUSD), jpy(p.ValuationJPY))
	}
	fmt.Fprintf(w, "%-20s %17s %16s\n", "Total", usd(rep.TotalPensionUSD), jpy(rep.TotalPensionJPY))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, a := range rep.Assets {
		fmt.Fprintf(w, "%-20s %17s %16s\n", a.Name, usd(a.ValuationUSD), jpy(a.ValuationJPY))
	}
	fmt.Fprintf(w, "%-20s %17s %16s\n", "Total", usd(rep.TotalAssetUSD), jpy(rep.TotalAssetJPY))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estate")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Grand Total:     %s (%s)\n", jpy(rep.GrandTotalJPY), usd(rep.GrandTotalUSD))
	fmt.Fprintf(w, "Exemption:       %s (%d heirs)\n", jpy(rep.ExemptionLimitJPY), rep.Heirs)
	fmt.Fprintf(w, "Taxable Excess:  %s\n", jpy(rep.ExcessOverExemptionJPY))
}

var valuationOrgFuncs = template.FuncMap{
	"usd": func(x float64) string { return market.Format(x, plan.USD) },
	"jpy": func(x float64) string { return market.Format(x, plan.JPY) },
}

var valuationOrg = template.Must(template.New("valuation").Funcs(valuationOrgFuncs).Parse(ValuationOrgTemplate))

// FormatValuationOrg renders rep as an Org-mode heading with property drawer
// and tables.
func FormatValuationOrg(rep estate.Report) (string, error) {
	buf := new(bytes.Buffer)
	if err := valuationOrg.Execute(buf, rep); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteValuationOrg writes the Org summary to path.
func WriteValuationOrg(path string, rep estate.Report) error {
	s, err := FormatValuationOrg(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const ValuationOrgTemplate = `* ESTATE VALUATION {{.Year}}
:PROPERTIES:
:YEAR:            {{.Year}}
:SPOUSE_AGE:      {{.SpouseAge}}
:REMAINING_YEARS: {{.RemainingYears}}
:PV_FACTOR:       {{printf "%.6f" .PVFactor}}
:USD_JPY:         {{printf "%.2f" .ExchangeRate}}
:HEIRS:           {{.Heirs}}
:END:

** Pensions
| Name | Annual (USD) | Valuation (USD) | Valuation (JPY) |
|------+--------------+-----------------+-----------------|
{{- range .Pensions }}
| {{.Name}} | {{usd .AnnualAmountUSD}} | {{usd .ValuationUSD}} | {{jpy .ValuationJPY}} |
{{- end }}
| Total | | {{usd .TotalPensionUSD}} | {{jpy .TotalPensionJPY}} |

** Assets
| Name | Valuation (USD) | Valuation (JPY) |
|------+-----------------+-----------------|
{{- range .Assets }}
| {{.Name}} | {{usd .ValuationUSD}} | {{jpy .ValuationJPY}} |
{{- end }}
| Total | {{usd .TotalAssetUSD}} | {{jpy .TotalAssetJPY}} |

** Summary
- Grand total:      *{{jpy .GrandTotalJPY}}* ({{usd .GrandTotalUSD}})
- Exemption limit:  *{{jpy .ExemptionLimitJPY}}*
- Excess:           *{{if gt .ExcessOverExemptionJPY 0.0}}{{jpy .ExcessOverExemptionJPY}}{{else}}none{{end}}*
`
