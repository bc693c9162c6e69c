package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func newEncryptDecryptChart(d Data) *charts.Bar {
	names := make([]string, len(d.RSA))
	enc := make([]opts.BarData, len(d.RSA))
	dec := make([]opts.BarData, len(d.RSA))
	for i, t := range d.RSA {
		names[i] = fmt.Sprintf("%s (%d bits)", t.Key.Name, t.Bits)
		enc[i] = opts.BarData{Value: float64(t.Encrypt.Nanoseconds()) / 1e3}
		dec[i] = opts.BarData{Value: float64(t.Decrypt.Nanoseconds()) / 1e3}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Encryption vs Decryption",
			Subtitle: fmt.Sprintf("message %d, %d repetitions", d.Message, d.Repetitions),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "RSA performance", Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "time (us)"}),
	)
	bar.SetXAxis(names).
		AddSeries("encrypt", enc).
		AddSeries("decrypt", dec)
	return bar
}

func newFactorTimeChart(d Data) *charts.Line {
	var labels []string
	var items []opts.LineData
	for _, ft := range d.Factor {
		if !ft.OK() {
			continue
		}
		labels = append(labels, fmt.Sprintf("%d", ft.Bits))
		items = append(items, opts.LineData{Value: ft.Elapsed.Seconds(), Name: ft.Key.Name})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Quadratic Sieve factorization time"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "N (bits)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "time (s)"}),
	)
	line.SetXAxis(labels).
		AddSeries("factor time", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return line
}

// newExtrapolationChart plots ln(time) against bits with the fitted line
// carried out to TargetBits.
func newExtrapolationChart(d Data, fit ExpFit) *charts.Scatter {
	var measured []opts.ScatterData
	minBits := TargetBits
	for _, ft := range d.Factor {
		if !ft.OK() {
			continue
		}
		measured = append(measured, opts.ScatterData{
			Value: []interface{}{ft.Bits, math.Log(ft.Elapsed.Seconds())},
			Name:  ft.Key.Name,
		})
		if ft.Bits < minBits {
			minBits = ft.Bits
		}
	}

	fitted := []opts.ScatterData{
		{Value: []interface{}{minBits, fit.LogSeconds(minBits)}, Name: "fit"},
		{Value: []interface{}{TargetBits, fit.LogSeconds(TargetBits)}, Name: fmt.Sprintf("%d-bit estimate", TargetBits)},
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Extrapolated factorization time",
			Subtitle: fit.String(),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "N (bits)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ln(time)", Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	sc.AddSeries("measured", measured,
		charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "circle", SymbolSize: 10}))
	sc.AddSeries("fit", fitted,
		charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "diamond", SymbolSize: 12}))
	return sc
}

// WritePlots renders every chart into a single HTML page. The extrapolation
// chart is left out when fewer than two keys were factored.
func WritePlots(w io.Writer, d Data) error {
	page := components.NewPage()
	page.AddCharts(newEncryptDecryptChart(d), newFactorTimeChart(d))

	if fit, err := d.Fit(); err == nil {
		page.AddCharts(newExtrapolationChart(d, fit))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render plots: %w", err)
	}
	return nil
}
