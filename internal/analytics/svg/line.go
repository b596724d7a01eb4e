package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Line renders a line chart across points in order.
func Line(width, height int, points []Point, opts LineOpts) (template.HTML, error) {
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.AxisColor, opts.GridColor, points)
	if err != nil {
		return "", err
	}
	stroke := fallback(opts.StrokeColor, "#2563eb")
	fill := fallback(opts.FillColor, "rgba(37,99,235,0.12)")

	var b strings.Builder
	f.open(&b, fallback(opts.Title, "Line chart"), fallback(opts.Description, "Trend data"), "line")
	if len(points) == 0 {
		f.empty(&b)
		b.WriteString("</svg>")
		return template.HTML(b.String()), nil
	}
	f.grid(&b)

	xs := make([]float64, len(points))
	for i := range points {
		if len(points) == 1 {
			xs[i] = f.padding + f.chartWidth/2
			continue
		}
		xs[i] = f.padding + float64(i)*f.chartWidth/float64(len(points)-1)
	}

	var path strings.Builder
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.2f %.2f ", cmd, xs[i], f.y(p.Value))
	}
	d := strings.TrimSpace(path.String())

	area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", d, xs[len(xs)-1], f.y(0), xs[0], f.y(0))
	fmt.Fprintf(&b, "<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, fill)
	fmt.Fprintf(&b, "<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>", d, stroke)

	for i, p := range points {
		if opts.ShowDots {
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", xs[i], f.y(p.Value), stroke)
		}
		f.label(&b, xs[i], p.Label)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
