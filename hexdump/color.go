package hexdump

import (
	"strings"

	"github.com/fatih/color"
)

// category groups bytes that share a color.
type category uint8

const (
	catNone category = iota
	catNull
	catPrintable
	catHighBit
	catOther
)

func classify(b byte) category {
	switch {
	case b == 0:
		return catNull
	case b >= 0x20 && b <= 0x7e:
		return catPrintable
	case b >= 0x7f:
		return catHighBit
	default:
		return catOther
	}
}

// sgr holds the escape sequence of every category, indexed by category.
var (
	sgr = [...]string{
		catNull:      sequence(color.Bold, color.FgWhite),
		catPrintable: sequence(color.Bold, color.FgGreen),
		catHighBit:   sequence(color.Bold, color.FgRed),
		catOther:     sequence(color.Bold, color.FgYellow),
	}
	sgrReset = sequence(color.Reset)
)

// sequence renders the SGR escape for attrs regardless of whether the
// process is attached to a terminal.
func sequence(attrs ...color.Attribute) string {
	var sb strings.Builder
	c := color.New(attrs...)
	c.EnableColor()
	c.SetWriter(&sb)

	return sb.String()
}

// colorizer emits the escape sequence for each byte of one field, skipping
// it when the previous byte had the same category. The zero value is ready
// for a new field.
type colorizer struct {
	last category
}

func (z *colorizer) color(dst []byte, b byte) []byte {
	cat := classify(b)
	if cat == z.last {
		return dst
	}
	z.last = cat

	return append(dst, sgr[cat]...)
}

// end closes the field with a reset if any color was emitted.
func (z *colorizer) end(dst []byte) []byte {
	if z.last == catNone {
		return dst
	}
	z.last = catNone

	return append(dst, sgrReset...)
}
