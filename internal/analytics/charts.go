package analytics

import (
	"fmt"
	"html/template"

	"github.com/shopdesk/shopdesk/internal/analytics/svg"
	"github.com/shopdesk/shopdesk/internal/credit"
	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/shared"
)

// Chart names a dashboard chart.
type Chart string

const (
	ChartCategory    Chart = "category"
	ChartSupplier    Chart = "supplier"
	ChartValue       Chart = "value"
	ChartSalesTrend  Chart = "sales-trend"
	ChartCreditTrend Chart = "credit-trend"
)

// Charts lists every chart in dashboard order.
var Charts = []Chart{ChartCategory, ChartSupplier, ChartValue, ChartSalesTrend, ChartCreditTrend}

// ParseChart resolves a chart name; unknown names are not found.
func ParseChart(name string) (Chart, error) {
	for _, c := range Charts {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("chart %q: %w", name, shared.ErrNotFound)
}

// ChartInput is the snapshot charts are drawn from.
type ChartInput struct {
	Distribution []Bucket
	Suppliers    []Bucket
	Values       []ValueBucket
	SalesTrend   []sales.QuantityPoint
	CreditTrend  []credit.DuePoint
}

// RenderChart draws one chart as inline SVG.
func RenderChart(chart Chart, in ChartInput) (template.HTML, error) {
	switch chart {
	case ChartCategory:
		return svg.Bars(0, 0, bucketPoints(in.Distribution), svg.BarOpts{
			Title:       "Items per category",
			Description: "Number of catalogue rows in each category",
		})
	case ChartSupplier:
		return svg.Bars(0, 0, bucketPoints(in.Suppliers), svg.BarOpts{
			Title:       "Items per supplier",
			Description: "Number of catalogue rows from each supplier",
			Color:       "#f97316",
		})
	case ChartValue:
		points := make([]svg.Point, 0, len(in.Values))
		for _, v := range in.Values {
			points = append(points, svg.Point{Label: v.Key, Value: v.Value.InexactFloat64()})
		}
		return svg.Bars(0, 0, points, svg.BarOpts{
			Title:       "Stock value by category",
			Description: "Quantity times price summed per category",
			Color:       "#22c55e",
		})
	case ChartSalesTrend:
		points := make([]svg.Point, 0, len(in.SalesTrend))
		for _, p := range in.SalesTrend {
			points = append(points, svg.Point{Label: shared.FormatDate(p.Date), Value: float64(p.Quantity)})
		}
		return svg.Line(0, 0, points, svg.LineOpts{
			Title:       "Units sold over time",
			Description: "Units sold per day",
			ShowDots:    true,
		})
	case ChartCreditTrend:
		points := make([]svg.Point, 0, len(in.CreditTrend))
		for _, p := range in.CreditTrend {
			points = append(points, svg.Point{Label: shared.FormatDate(p.Date), Value: p.Amount.InexactFloat64()})
		}
		return svg.Line(0, 0, points, svg.LineOpts{
			Title:       "Credit falling due",
			Description: "Outstanding credit per due date",
			StrokeColor: "#dc2626",
			FillColor:   "rgba(220,38,38,0.12)",
			ShowDots:    true,
		})
	}
	return "", fmt.Errorf("chart %q: %w", chart, shared.ErrNotFound)
}

func bucketPoints(buckets []Bucket) []svg.Point {
	points := make([]svg.Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, svg.Point{Label: b.Key, Value: float64(b.Count)})
	}
	return points
}
