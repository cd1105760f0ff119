package watch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ssargent/valkyr/pkg/term"
)

// Renderer consumes one formatted row per tick.
type Renderer interface {
	WriteRow(cells []string) error
}

// CSVRenderer emits the header row once at construction, then one row
// per tick. The header is never re-emitted.
type CSVRenderer struct {
	w *csv.Writer
}

// NewCSVRenderer creates a renderer and writes the header row.
func NewCSVRenderer(out io.Writer, headers []string) (*CSVRenderer, error) {
	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &CSVRenderer{w: w}, nil
}

func (r *CSVRenderer) WriteRow(cells []string) error {
	if err := r.w.Write(cells); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

// TableRenderer prints a fixed-width aligned table. Column widths are
// the maximum of the header width and every value width seen so far, so
// columns never shrink. The header row is re-printed whenever the
// detected terminal width changes or after terminal-height minus two
// data rows, so a long-running session never scrolls it out of view.
type TableRenderer struct {
	out       io.Writer
	headers   []string
	widths    []int
	size      term.SizeProvider
	lastWidth int
	rows      int
}

// NewTableRenderer creates a renderer writing to out, consulting size
// for the terminal dimensions on every row.
func NewTableRenderer(out io.Writer, headers []string, size term.SizeProvider) *TableRenderer {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &TableRenderer{
		out:       out,
		headers:   headers,
		widths:    widths,
		size:      size,
		lastWidth: -1,
	}
}

func (r *TableRenderer) WriteRow(cells []string) error {
	for i, c := range cells {
		if i < len(r.widths) && len(c) > r.widths[i] {
			r.widths[i] = len(c)
		}
	}

	width, height := r.size.Size()
	rowsPerHeader := height - 2
	if rowsPerHeader < 1 {
		rowsPerHeader = 1
	}
	if width != r.lastWidth || r.rows%rowsPerHeader == 0 {
		if err := r.writeCells(r.headers); err != nil {
			return err
		}
		r.lastWidth = width
	}
	r.rows++
	return r.writeCells(cells)
}

func (r *TableRenderer) writeCells(cells []string) error {
	var b strings.Builder
	for i, c := range cells {
		fmt.Fprintf(&b, "%*s", r.widths[i]+1, c)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(r.out, b.String())
	return err
}
