package hexdump

import (
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

const (
	hexLower = "0123456789abcdef"
	hexUpper = "0123456789ABCDEF"

	offsetDigits = 8
)

// appendDigits appends the digit text of b: two hex digits, or eight binary
// digits most significant bit first.
func appendDigits(dst []byte, b byte, binary, upper bool) []byte {
	if binary {
		for bit := 7; bit >= 0; bit-- {
			dst = append(dst, '0'+((b>>bit)&1))
		}

		return dst
	}

	digits := hexLower
	if upper {
		digits = hexUpper
	}

	return append(dst, digits[b>>4], digits[b&0x0f])
}

func appendBlanks(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, ' ')
	}

	return dst
}

// appendOffset appends the offset label: at least eight zero-padded digits
// in radix followed by ": ".
func appendOffset(dst []byte, off int64, radix Radix) []byte {
	base := 16
	if radix == RadixDecimal {
		base = 10
	}

	var scratch [24]byte
	digits := strconv.AppendUint(scratch[:0], uint64(off), base)
	for i := len(digits); i < offsetDigits; i++ {
		dst = append(dst, '0')
	}
	dst = append(dst, digits...)

	return append(dst, ':', ' ')
}

// gutterByte returns the character shown for b in the gutter.
func gutterByte(b byte, ebcdic bool) byte {
	if ebcdic {
		r := charmap.CodePage037.DecodeByte(b)
		if r >= 0x20 && r <= 0x7e {
			return byte(r)
		}

		return '.'
	}

	if b >= 0x20 && b <= 0x7e {
		return b
	}

	return '.'
}

// appendColumnarRow appends one hex or binary dump line for row.
func appendColumnarRow(dst []byte, cfg *Config, lay Layout, row Row) []byte {
	dst = appendOffset(dst, row.Offset+cfg.PositionOffset, cfg.Radix)

	binary := cfg.Mode == ModeBinary
	width := cfg.digitWidth()
	colored := cfg.colored()
	group := cfg.GroupSize
	data := row.Data

	var z colorizer
	field := 0
	for i := 0; i < len(data); i += group {
		end := min(i+group, len(data))
		if cfg.LittleEndian {
			// right-align an incomplete group so its bytes keep their columns
			blank := (group - (end - i)) * width
			dst = appendBlanks(dst, blank)
			field += blank
			for j := end - 1; j >= i; j-- {
				if colored {
					dst = z.color(dst, data[j])
				}
				dst = appendDigits(dst, data[j], binary, cfg.Upper)
			}
		} else {
			for j := i; j < end; j++ {
				if colored {
					dst = z.color(dst, data[j])
				}
				dst = appendDigits(dst, data[j], binary, cfg.Upper)
			}
		}
		dst = append(dst, ' ')
		field += width*(end-i) + 1
	}
	dst = z.end(dst)

	if field < lay.LineLength {
		dst = appendBlanks(dst, lay.LineLength-field)
	}
	dst = append(dst, ' ')

	z = colorizer{}
	for _, b := range data {
		if colored {
			dst = z.color(dst, b)
		}
		dst = append(dst, gutterByte(b, cfg.EBCDIC))
	}
	dst = z.end(dst)

	return append(dst, '\n')
}
