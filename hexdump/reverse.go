package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
)

var (
	indexMarker  = []byte(": ")
	gutterMarker = []byte("  ")
)

// Reverse reads hex columnar or plain dump text from src and writes the
// bytes it describes to dst. Zero runs collapsed by autoskip are restored
// from the offsets around the "*" marker.
//
// Column and group settings of the dump need not match cfg: lines are split
// at the ": " after the offset and at the two spaces before the gutter.
func Reverse(dst io.Writer, src io.Reader, cfg Config) (Stats, error) {
	if err := cfg.ValidateReverse(); err != nil {
		return Stats{}, err
	}

	r := &reverser{
		cfg:   &cfg,
		dst:   dst,
		width: cfg.digitWidth(),
		next:  cfg.PositionOffset,
	}

	var err error
	if cfg.Mode == ModePlain {
		err = r.plain(src)
	} else {
		err = r.columnar(src)
	}
	if err != nil {
		// bytes decoded before the failing line are still written
		r.flush()
		return r.st, err
	}

	switch {
	case r.st.BytesRead == 0:
		return r.st, ErrNoInput
	case r.decoded == 0:
		return r.st, &ParseError{Line: r.line, Err: ErrEmptyResult}
	}

	return r.st, nil
}

// reverser holds the state of one Reverse call.
type reverser struct {
	cfg   *Config
	dst   io.Writer
	width int // digits per byte
	out   []byte
	st    Stats

	line     int   // current 1-based line
	skipping bool  // a "*" line was seen since the last data line
	next     int64 // declared offset the next data byte should have
	decoded  int64 // bytes produced, zero fill included

	// plain mode digit window, which may span reads and lines
	acc    byte
	digits int
}

func (r *reverser) fail(kind error, format string, args ...any) error {
	return &ParseError{Line: r.line, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

func (r *reverser) flush() error {
	if len(r.out) == 0 {
		return nil
	}

	n, err := r.dst.Write(r.out)
	r.st.BytesWritten += int64(n)
	r.out = r.out[:0]

	return err
}

// columnar parses offset-labelled dump lines. Lines are assembled in a
// single page-sized buffer; a partial line at the end of a read is moved to
// the front and completed by the next read.
func (r *reverser) columnar(src io.Reader) error {
	buf := make([]byte, r.cfg.PageSize)
	tail := 0

	for {
		n, err := src.Read(buf[tail:])
		if err != nil && err != io.EOF {
			return err
		}
		r.st.BytesRead += int64(n)
		eof := err == io.EOF
		valid := tail + n

		start := 0
		for {
			i := bytes.IndexByte(buf[start:valid], '\n')
			if i < 0 {
				break
			}
			if err := r.parseLine(buf[start : start+i]); err != nil {
				return err
			}
			start += i + 1
		}

		if eof {
			if start < valid {
				if err := r.parseLine(buf[start:valid]); err != nil {
					return err
				}
			}

			return r.flush()
		}

		if start == 0 && valid == len(buf) {
			r.line++
			return r.fail(ErrFormatMismatch, "no line break within %d bytes", len(buf))
		}
		tail = copy(buf, buf[start:valid])

		if err := r.flush(); err != nil {
			return err
		}
	}
}

func (r *reverser) parseLine(line []byte) error {
	r.line++

	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}
	if line[0] == '*' {
		r.skipping = true
		return nil
	}

	sep := bytes.Index(line, indexMarker)
	if sep < 0 {
		return r.fail(ErrFormatMismatch, "no %q after the offset", indexMarker)
	}

	base := 16
	if r.cfg.Radix == RadixDecimal {
		base = 10
	}
	label := bytes.TrimSpace(line[:sep])
	idx, err := strconv.ParseUint(string(label), base, 63)
	if err != nil {
		return r.fail(ErrFormatMismatch, "offset %q is not a base %d number", label, base)
	}
	declared := int64(idx)

	if r.skipping {
		gap := declared - r.next
		if gap < 0 {
			return r.fail(ErrFormatMismatch, "offset %#x is before the end of the skipped run at %#x", declared, r.next)
		}
		if err := r.fillZeros(gap); err != nil {
			return err
		}
		r.skipping = false
	}

	mark, decoded := len(r.out), r.decoded
	n, err := r.decodeField(line, sep+len(indexMarker))
	if err != nil {
		// a failing line contributes no bytes
		r.out, r.decoded = r.out[:mark], decoded
		return err
	}
	r.next = declared + n

	return nil
}

// decodeField decodes the byte field of line starting at pos. Single
// blanks between groups are skipped; two blanks or the end of the line
// end the field.
func (r *reverser) decodeField(line []byte, pos int) (int64, error) {
	var n int64
	for pos < len(line) {
		if line[pos] == ' ' {
			if bytes.HasPrefix(line[pos:], gutterMarker) {
				break
			}
			pos++

			continue
		}

		if pos+r.width > len(line) {
			return n, r.fail(ErrFormatMismatch, "truncated byte %q at column %d", line[pos:], pos+1)
		}

		var b byte
		for i := pos; i < pos+r.width; i++ {
			v, ok := digitValue(line[i], r.width)
			if !ok {
				return n, r.fail(ErrInvalidCharacter, "%q at column %d", line[i], i+1)
			}
			b = b*byte(digitBase(r.width)) + v
		}
		r.out = append(r.out, b)
		r.decoded++
		n++
		pos += r.width
	}

	return n, nil
}

// plain parses a headerless digit stream. Blanks and line breaks between
// digits are ignored.
func (r *reverser) plain(src io.Reader) error {
	buf := make([]byte, r.cfg.PageSize)
	r.line = 1
	radix := byte(digitBase(r.width))

	for {
		n, err := src.Read(buf)
		if err != nil && err != io.EOF {
			return err
		}
		r.st.BytesRead += int64(n)

		for _, c := range buf[:n] {
			switch c {
			case '\n':
				r.line++
				continue
			case ' ', '\t', '\r':
				continue
			}

			v, ok := digitValue(c, r.width)
			if !ok {
				return r.fail(ErrInvalidCharacter, "%q", c)
			}
			r.acc = r.acc*radix + v
			r.digits++
			if r.digits == r.width {
				r.out = append(r.out, r.acc)
				r.decoded++
				r.acc, r.digits = 0, 0
			}
		}

		if ferr := r.flush(); ferr != nil {
			return ferr
		}

		if err == io.EOF {
			if r.digits > 0 {
				return r.fail(ErrFormatMismatch, "input ends inside a byte after %d of %d digits", r.digits, r.width)
			}

			return nil
		}
	}
}

// fillZeros appends n zero bytes, flushing whenever a page worth of output
// is pending.
func (r *reverser) fillZeros(n int64) error {
	page := int64(r.cfg.PageSize)
	for n > 0 {
		room := page - int64(len(r.out))
		if room <= 0 {
			if err := r.flush(); err != nil {
				return err
			}

			continue
		}

		k := int(min(n, room))
		start := len(r.out)
		r.out = slices.Grow(r.out, k)[:start+k]
		clear(r.out[start:])
		r.decoded += int64(k)
		n -= int64(k)
	}

	return nil
}

func digitBase(width int) int {
	if width == 8 {
		return 2
	}

	return 16
}

// digitValue returns the value of c as a digit of a width-character byte.
func digitValue(c byte, width int) (byte, bool) {
	if width == 8 {
		if c == '0' || c == '1' {
			return c - '0', true
		}

		return 0, false
	}

	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
