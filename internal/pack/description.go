package pack

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// legacy formatting codes, §0 through §f
var codeColors = map[rune]string{
	'0': "#000000", '1': "#0000AA", '2': "#00AA00", '3': "#00AAAA",
	'4': "#AA0000", '5': "#AA00AA", '6': "#FFAA00", '7': "#AAAAAA",
	'8': "#555555", '9': "#5555FF", 'a': "#55FF55", 'b': "#55FFFF",
	'c': "#FF5555", 'd': "#FF55FF", 'e': "#FFFF55", 'f': "#FFFFFF",
}

// Segment is a run of description text in a single color.
type Segment struct {
	Text  string
	Color colorful.Color
}

// ParseDescription splits a pack description containing §-style color codes
// into colored segments. Text before any code renders in the default black;
// unknown codes are dropped without starting a new segment.
func ParseDescription(s string) []Segment {
	var segs []Segment
	color := mustHex("#000000")

	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, Segment{Text: buf.String(), Color: color})
			buf.Reset()
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '§' && i+1 < len(runes) {
			if hex, ok := codeColors[runes[i+1]]; ok {
				flush()
				color = mustHex(hex)
			}
			i++ // consume the code character either way
			continue
		}
		buf.WriteRune(runes[i])
	}
	flush()
	return segs
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
