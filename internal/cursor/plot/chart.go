package plot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
	"github.com/banshee-data/steadycursor/internal/cursor/metrics"
)

// eventKinds fixes the bar order so pages diff cleanly between runs.
var eventKinds = []engine.EventKind{
	engine.EventTargetAcquired,
	engine.EventTargetReleased,
	engine.EventTargetSnapped,
	engine.EventEdgeResisted,
	engine.EventOvershootCorrected,
}

// CorrectionChart writes an HTML page with the per-tick correction distance
// and the number of engine events by kind.
func CorrectionChart(w io.Writer, title string, ticks []metrics.TickRecord, events []engine.EngineEvent) error {
	if len(ticks) == 0 {
		return ErrNoData
	}

	x := make([]string, len(ticks))
	y := make([]opts.LineData, len(ticks))
	corrections := make([]float64, len(ticks))
	for i, r := range ticks {
		x[i] = strconv.FormatUint(r.Raw.Tick, 10)
		corrections[i] = r.Correction()
		y[i] = opts.LineData{Value: corrections[i]}
	}
	stats := metrics.Summarize(corrections)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: stats.String()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "tick", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "correction (vpx)", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(x).
		AddSeries("correction", y,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)

	counts := make(map[engine.EventKind]int, len(eventKinds))
	for _, ev := range events {
		counts[ev.Kind]++
	}
	labels := make([]string, len(eventKinds))
	bars := make([]opts.BarData, len(eventKinds))
	for i, k := range eventKinds {
		labels[i] = string(k)
		bars[i] = opts.BarData{Value: counts[k]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Engine events", Subtitle: fmt.Sprintf("total=%d", len(events))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("events", bars,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(line, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("plot: render chart: %w", err)
	}
	return nil
}
