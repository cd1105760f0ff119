// Package xxd renders byte strings as /usr/bin/xxd-style hex dumps:
// a 7-digit hex offset, sixteen bytes per line grouped in pairs, and a
// printable-ASCII gutter.
package xxd

import (
	"fmt"
	"strings"
)

const bytesPerLine = 16

// width of the hex area for a full line: 8 groups of one space plus
// four hex digits.
const hexAreaWidth = (bytesPerLine / 2) * 5

// Dump formats data as a hex dump. Empty input yields an empty string.
func Dump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += bytesPerLine {
		end := off + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		fmt.Fprintf(&b, "%07x:", off)
		for i, c := range chunk {
			if i%2 == 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%02x", c)
		}

		used := len(chunk)*2 + (len(chunk)+1)/2
		b.WriteString(strings.Repeat(" ", hexAreaWidth-used))
		b.WriteString("  ")
		for _, c := range chunk {
			if isPrint(c) {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// isPrint reports whether c prints visibly without affecting the
// printing position.
func isPrint(c byte) bool {
	return c >= 0x20 && c < 0x7f
}
