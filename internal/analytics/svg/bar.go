package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders one bar per point. Negative values hang below the zero axis.
func Bars(width, height int, points []Point, opts BarOpts) (template.HTML, error) {
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.AxisColor, opts.GridColor, points)
	if err != nil {
		return "", err
	}
	color := fallback(opts.Color, "#0ea5e9")

	var b strings.Builder
	f.open(&b, fallback(opts.Title, "Bar chart"), fallback(opts.Description, "Bar comparison"), "bar")
	if len(points) == 0 {
		f.empty(&b)
		b.WriteString("</svg>")
		return template.HTML(b.String()), nil
	}
	f.grid(&b)

	slot := f.chartWidth / float64(len(points))
	barWidth := slot * 0.6
	zeroY := f.y(0)
	for i, p := range points {
		x := f.padding + float64(i)*slot + (slot-barWidth)/2
		top, h := zeroY-p.Value*f.scale, p.Value*f.scale
		if p.Value < 0 {
			top, h = zeroY, -h
		}
		fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, top, barWidth, h, color, template.HTMLEscapeString(p.Label), template.HTMLEscapeString(formatTick(p.Value)))
		f.label(&b, f.padding+float64(i)*slot+slot/2, p.Label)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
