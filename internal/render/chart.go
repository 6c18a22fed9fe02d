// Package render produces PNG chart artifacts from price series and
// valuation histories.
package render

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/quantsim/papertrader/internal/domain"
	"github.com/quantsim/papertrader/internal/quote"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// PriceHistoryPNG renders a close-price line chart for the symbol.
// A line needs at least two points; shorter series return nil bytes,
// which the HTTP layer reports as an empty chart.
func PriceHistoryPNG(symbol string, closes []quote.ClosePrice) ([]byte, error) {
	if len(closes) < 2 {
		return nil, nil
	}

	xs := make([]time.Time, len(closes))
	ys := make([]float64, len(closes))
	for i, c := range closes {
		xs[i] = c.Date
		ys[i] = domain.CentsToDollars(c.PriceCents)
	}

	graph := chart.Chart{
		Title:  symbol + " Price History (1 Year)",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("3d5a80"),
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PerformancePNG renders the portfolio value over time from a
// session's valuation history, with the y-range padded 5% around the
// observed values. Fewer than two samples return nil bytes.
func PerformancePNG(samples []domain.HistorySample) ([]byte, error) {
	if len(samples) < 2 {
		return nil, nil
	}

	xs := make([]time.Time, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.At
		ys[i] = domain.CentsToDollars(s.TotalValueCents)
	}

	graph := chart.Chart{
		Title:  "Portfolio Performance",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05"),
		},
		YAxis: chart.YAxis{
			Range: performanceRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2f4858"),
					StrokeWidth: 2,
					DotColor:    drawing.ColorFromHex("2f4858"),
					DotWidth:    3,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// performanceRange pads the y-range 5% beyond the observed min and
// max. A flat series gets a fixed ±1 band so the axis still has
// extent.
func performanceRange(ys []float64) *chart.ContinuousRange {
	min, max := ys[0], ys[0]
	for _, y := range ys[1:] {
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	if max == min {
		return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
	}
	margin := 0.05 * (max - min)
	return &chart.ContinuousRange{Min: min - margin, Max: max + margin}
}
