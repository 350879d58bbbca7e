package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"YTM4A/internal/domain/models"
	domsvc "YTM4A/internal/domain/service"
)

// PriceRenderer draws close price with Bollinger bands, and RSI on the
// secondary axis.
type PriceRenderer struct {
	Width  int
	Height int
}

func NewPriceRenderer() *PriceRenderer {
	return &PriceRenderer{Width: 1200, Height: 600}
}

type points struct {
	x []time.Time
	y []float64
}

func (p *points) add(t time.Time, v *float64) {
	if v == nil {
		return
	}
	p.x = append(p.x, t)
	p.y = append(p.y, *v)
}

// RenderPrice writes a PNG to w. It needs at least two indicator points.
func (r *PriceRenderer) RenderPrice(w io.Writer, symbol string, snap *models.MarketSnapshot) error {
	if snap == nil || len(snap.Indicators) < 2 {
		n := 0
		if snap != nil {
			n = len(snap.Indicators)
		}
		return fmt.Errorf("need at least 2 data points, got %d", n)
	}

	var price, upper, lower, rsi points
	for _, p := range snap.Indicators {
		c := p.Close
		price.add(p.Time, &c)
		upper.add(p.Time, p.BBUpper)
		lower.add(p.Time, p.BBLower)
		rsi.add(p.Time, p.RSI)
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: symbol + " Close",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2,
			},
			XValues: price.x,
			YValues: price.y,
		},
	}
	band := chart.Style{
		StrokeColor:     drawing.ColorFromHex("9ca3af"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4.0, 3.0},
	}
	if len(upper.x) >= 2 {
		series = append(series,
			chart.TimeSeries{Name: "BB Upper", Style: band, XValues: upper.x, YValues: upper.y},
			chart.TimeSeries{Name: "BB Lower", Style: band, XValues: lower.x, YValues: lower.y},
		)
	}
	if len(rsi.x) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:  "RSI",
			YAxis: chart.YAxisSecondary,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("f59e0b"),
				StrokeWidth: 1,
			},
			XValues: rsi.x,
			YValues: rsi.y,
		})
	}

	graph := chart.Chart{
		Title:  symbol + " Price and Indicators",
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

var _ domsvc.ChartRenderer = (*PriceRenderer)(nil)
