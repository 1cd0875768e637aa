// Package plot draws projected ECG series as braille text charts.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/ecgdash/internal/model"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultHeight      = 8
	minWidth           = 10
	axisSeparator      = " ┤"
	fallbackTermWidth  = 80
	dotsPerCellX       = 2
	dotsPerCellY       = 4
	flatSeriesHeadroom = 1
)

// Options controls the chart geometry and styling.
type Options struct {
	// Trace styles the braille rows. The zero style prints plain text.
	Trace lipgloss.Style
	// Axis styles the axis labels.
	Axis   lipgloss.Style
	Title  string
	Width  int
	Height int
}

// Render writes the chart of points to w.
func Render(w io.Writer, points []model.Point, opts Options) error {
	_, err := io.WriteString(w, String(points, opts))
	return err
}

// String returns the chart of points. An empty series yields a one-line notice.
func String(points []model.Point, opts Options) string {
	if len(points) == 0 {
		return "No ECG data to plot.\n"
	}

	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}

	lo, hi := amplitudeRange(points)
	labels := [3]string{formatAmplitude(hi), formatAmplitude((lo + hi) / 2), formatAmplitude(lo)}
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, utf8.RuneCountInString(l))
	}

	width := opts.Width
	if width <= 0 {
		width = WidthFor(TerminalWidth(), labelWidth)
	}
	width = max(width, minWidth)

	c := newCanvas(width, height)
	c.trace(envelope(points, width*dotsPerCellX), lo, hi)

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title)
		b.WriteByte('\n')
	}
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = labels[0]
		case height / 2:
			if height > 2 {
				label = labels[1]
			}
		case height - 1:
			label = labels[2]
		}
		b.WriteString(opts.Axis.Render(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator)))
		b.WriteString(opts.Trace.Render(c.row(row)))
		b.WriteByte('\n')
	}

	start := fmt.Sprintf("%.2fs", points[0].Time)
	end := fmt.Sprintf("%.2fs", points[len(points)-1].Time)
	gap := max(1, width-len(start)-len(end))
	axis := strings.Repeat(" ", labelWidth+utf8.RuneCountInString(axisSeparator)) +
		start + strings.Repeat(" ", gap) + end
	b.WriteString(opts.Axis.Render(axis))
	b.WriteByte('\n')
	return b.String()
}

// WidthFor computes a chart width that fits totalWidth next to axis labels of
// labelWidth runes.
func WidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minWidth
	}
	return max(minWidth, totalWidth-labelWidth-utf8.RuneCountInString(axisSeparator))
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func amplitudeRange(points []model.Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if math.IsNaN(p.Amplitude) || math.IsInf(p.Amplitude, 0) {
			continue
		}
		lo = math.Min(lo, p.Amplitude)
		hi = math.Max(hi, p.Amplitude)
	}
	if math.IsInf(lo, 1) {
		return -flatSeriesHeadroom, flatSeriesHeadroom
	}
	if hi-lo < 1e-9 {
		return lo - flatSeriesHeadroom, hi + flatSeriesHeadroom
	}
	return lo, hi
}

func formatAmplitude(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// span is the amplitude extent of one dot column.
type span struct {
	lo, hi float64
	ok     bool
}

// envelope buckets points into columns, keeping each bucket's min and max so
// narrow QRS peaks survive downsampling.
func envelope(points []model.Point, columns int) []span {
	out := make([]span, columns)
	n := len(points)
	for col := 0; col < columns; col++ {
		start := col * n / columns
		end := min(max((col+1)*n/columns, start+1), n)
		for _, p := range points[start:end] {
			v := p.Amplitude
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if !out[col].ok {
				out[col] = span{lo: v, hi: v, ok: true}
				continue
			}
			out[col].lo = math.Min(out[col].lo, v)
			out[col].hi = math.Max(out[col].hi, v)
		}
	}
	return out
}

// canvas is a grid of braille cells addressed in dots.
type canvas struct {
	cells  [][]uint8
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells, width: width, height: height}
}

func (c *canvas) dotRows() int { return c.height * dotsPerCellY }

// trace draws every column's span and joins neighbouring columns.
func (c *canvas) trace(cols []span, lo, hi float64) {
	prevX, prevY := -1, 0
	for x, s := range cols {
		if !s.ok {
			prevX = -1
			continue
		}
		top := c.toDotRow(s.hi, lo, hi)
		bottom := c.toDotRow(s.lo, lo, hi)
		c.vline(x, top, bottom)
		if prevX >= 0 {
			// Join from the previous column's end to the nearer edge of this one.
			y := top
			if absInt(bottom-prevY) < absInt(top-prevY) {
				y = bottom
			}
			c.line(prevX, prevY, x, y)
		}
		prevX, prevY = x, bottom
	}
}

func (c *canvas) toDotRow(v, lo, hi float64) int {
	rows := c.dotRows()
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func (c *canvas) vline(x, y0, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.set(x, y)
	}
}

// line draws with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// braille dot bits indexed by [y%4][x%2].
var dotBits = [dotsPerCellY][dotsPerCellX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *canvas) set(x, y int) {
	cx, cy := x/dotsPerCellX, y/dotsPerCellY
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.cells[cy][cx] |= dotBits[y%dotsPerCellY][x%dotsPerCellX]
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	b.Grow(c.width * 3)
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
