package report

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

const (
	topFilesLimit = 20
	xAxisRotate   = 45
	chartWidth    = "1200px"
	chartHeight   = "500px"
)

var strategyColors = map[finding.Tag]string{
	finding.TagESLint:  "#5470c6",
	finding.TagTSPrune: "#91cc75",
	finding.TagLexical: "#fac858",
}

// RenderPlot writes an HTML page with charts of the report.
func RenderPlot(w io.Writer, r *Report) error {
	page := components.NewPage()
	page.PageTitle = "importsweep report"
	page.AddCharts(strategyChart(r), filesChart(r), languageChart(r))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func newBar(title, subtitle, yAxis string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxis}),
	)

	return bar
}

func barData(values []int) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	return data
}

func strategyChart(r *Report) *charts.Bar {
	labels := make([]string, 0, len(r.Strategies))
	totals := make([]int, 0, len(r.Strategies))
	uniques := make([]int, 0, len(r.Strategies))

	for _, s := range r.Strategies {
		labels = append(labels, string(s.Strategy)+" ("+string(s.Outcome)+")")
		totals = append(totals, s.Total)
		uniques = append(uniques, s.Unique)
	}

	bar := newBar("Findings per strategy", "Detected versus kept after deduplication", "Findings")
	bar.SetXAxis(labels).
		AddSeries("Detected", barData(totals)).
		AddSeries("Unique", barData(uniques))

	return bar
}

func filesChart(r *Report) *charts.Bar {
	counts := make(map[string]map[finding.Tag]int)

	for _, f := range r.Findings {
		if counts[f.File] == nil {
			counts[f.File] = make(map[finding.Tag]int)
		}

		counts[f.File][f.Strategy]++
	}

	fileTotal := func(file string) int {
		total := 0
		for _, n := range counts[file] {
			total += n
		}

		return total
	}

	files := slices.SortedFunc(maps.Keys(counts), func(a, b string) int {
		return cmp.Or(cmp.Compare(fileTotal(b), fileTotal(a)), cmp.Compare(a, b))
	})

	if len(files) > topFilesLimit {
		files = files[:topFilesLimit]
	}

	bar := newBar("Files with most findings", fmt.Sprintf("Top %d files", topFilesLimit), "Findings")
	bar.SetXAxis(files)

	for _, tag := range []finding.Tag{finding.TagESLint, finding.TagTSPrune, finding.TagLexical} {
		values := make([]int, len(files))
		for i, file := range files {
			values[i] = counts[file][tag]
		}

		bar.AddSeries(string(tag), barData(values),
			charts.WithBarChartOpts(opts.BarChart{Stack: "findings"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: strategyColors[tag]}),
		)
	}

	return bar
}

func languageChart(r *Report) *charts.Bar {
	names := slices.Sorted(maps.Keys(r.Languages))

	values := make([]int, len(names))
	for i, name := range names {
		values[i] = r.Languages[name]
	}

	bar := newBar("Scanned files by language", fmt.Sprintf("%d file(s)", r.FilesScanned), "Files")
	bar.SetXAxis(names).AddSeries("Files", barData(values))

	return bar
}
