package watch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/valkyr/pkg/term"
)

func TestCSVRendererHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVRenderer(&buf, []string{"Depth", "Recs/s"})
	require.NoError(t, err)

	require.NoError(t, r.WriteRow([]string{"3", "+10"}))
	require.NoError(t, r.WriteRow([]string{"3", "+12"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Depth,Recs/s", lines[0])
	assert.Equal(t, "3,+10", lines[1])
	assert.Equal(t, "3,+12", lines[2])
}

// mutableSize lets a test change the reported terminal size mid-run.
type mutableSize struct {
	w, h int
}

func (m *mutableSize) Size() (int, int) { return m.w, m.h }

func TestTableRendererAlignment(t *testing.T) {
	var buf bytes.Buffer
	// Height 100 keeps the periodic header reprint out of the way.
	r := NewTableRenderer(&buf, []string{"Recs", "Mb"}, term.Fixed(80, 100))

	require.NoError(t, r.WriteRow([]string{"7", "0.10"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	// Widths: max(len header, len value) plus one leading space.
	assert.Equal(t, " Recs   Mb", lines[0])
	assert.Equal(t, "    7 0.10", lines[1])
}

func TestTableRendererWidthsNeverShrink(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf, []string{"Recs"}, term.Fixed(80, 100))

	require.NoError(t, r.WriteRow([]string{"1234567"}))
	buf.Reset()
	require.NoError(t, r.WriteRow([]string{"8"}))

	// Short values stay right-justified in the widened column.
	assert.Equal(t, "       8\n", buf.String())
}

func TestTableRendererReprintsHeaderOnResize(t *testing.T) {
	var buf bytes.Buffer
	size := &mutableSize{w: 80, h: 100}
	r := NewTableRenderer(&buf, []string{"Recs"}, size)

	require.NoError(t, r.WriteRow([]string{"1"}))
	require.NoError(t, r.WriteRow([]string{"2"}))
	size.w = 120
	require.NoError(t, r.WriteRow([]string{"3"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header, 1, 2, header, 3
	require.Len(t, lines, 5)
	assert.Equal(t, " Recs", lines[0])
	assert.Equal(t, " Recs", lines[3])
}

func TestTableRendererReprintsHeaderPeriodically(t *testing.T) {
	var buf bytes.Buffer
	// Height 5 means a header every 3 data rows.
	r := NewTableRenderer(&buf, []string{"Recs"}, term.Fixed(80, 5))

	for i := 0; i < 6; i++ {
		require.NoError(t, r.WriteRow([]string{"9"}))
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	headers := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "Recs" {
			headers++
		}
	}
	assert.Equal(t, 2, headers)
	assert.Len(t, lines, 8)
}
