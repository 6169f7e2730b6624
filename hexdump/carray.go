package hexdump

import "strconv"

// SymbolName turns name into a C identifier the way xxd does: every byte
// that is not an ASCII letter or digit becomes '_', a leading digit gets a
// "__" prefix, and capitalize upper-cases the letters.
func SymbolName(name string, capitalize bool) string {
	out := make([]byte, 0, len(name)+2)
	for i := 0; i < len(name); i++ {
		b := name[i]
		if i == 0 && isDigit(b) {
			out = append(out, '_', '_')
		}

		switch {
		case isDigit(b) || (b >= 'A' && b <= 'Z'):
			out = append(out, b)
		case b >= 'a' && b <= 'z':
			if capitalize {
				b -= 'a' - 'A'
			}
			out = append(out, b)
		default:
			out = append(out, '_')
		}
	}

	return string(out)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func appendCArrayHeader(dst []byte, cfg *Config) []byte {
	if cfg.SymbolName == "" {
		return dst
	}

	dst = append(dst, "unsigned char "...)
	dst = append(dst, SymbolName(cfg.SymbolName, cfg.Capitalize)...)

	return append(dst, "[] = {\n"...)
}

// appendCArray appends the initializer entries for data. written is the
// number of entries already emitted and decides where lines wrap.
func appendCArray(dst []byte, cfg *Config, data []byte, written int64) []byte {
	binary := cfg.digitWidth() == 8
	cols := int64(cfg.Columns)

	for _, b := range data {
		switch {
		case written == 0:
			dst = append(dst, ' ', ' ')
		case written%cols == 0:
			dst = append(dst, ",\n  "...)
		default:
			dst = append(dst, ", "...)
		}

		switch {
		case binary:
			dst = append(dst, '0', 'b')
		case cfg.Upper:
			dst = append(dst, '0', 'X')
		default:
			dst = append(dst, '0', 'x')
		}
		dst = appendDigits(dst, b, binary, cfg.Upper)
		written++
	}

	return dst
}

func appendCArrayFooter(dst []byte, cfg *Config, written int64) []byte {
	if written > 0 {
		dst = append(dst, '\n')
	}
	if cfg.SymbolName == "" {
		return dst
	}

	suffix := "_len = "
	if cfg.Capitalize {
		suffix = "_LEN = "
	}

	dst = append(dst, "};\nunsigned int "...)
	dst = append(dst, SymbolName(cfg.SymbolName, cfg.Capitalize)...)
	dst = append(dst, suffix...)
	dst = strconv.AppendInt(dst, written, 10)

	return append(dst, ";\n"...)
}
