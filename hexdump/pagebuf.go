package hexdump

import "io"

// Row is one window of at most Columns input bytes. Data aliases the page
// buffer and is only valid during the callback that receives it.
type Row struct {
	Data   []byte
	Offset int64 // input offset of Data[0], StartAt included
	Final  bool  // no row follows
}

// PageBuffer assembles whole rows from an io.Reader in bounded memory.
//
// Each physical read appends up to one page after the bytes left over from
// the previous read. Rows are cut from the front; a short remainder is moved
// back to the start of the buffer and completed by the next read, so the
// buffer never holds more than pageSize+columns-1 bytes.
type PageBuffer struct {
	src       io.Reader
	buf       []byte
	columns   int
	pageSize  int
	tail      int   // bytes carried from the previous read
	skip      int64 // bytes still to discard before the first row
	remaining int64 // bytes still to emit, NoLimit for all
	offset    int64 // input offset of the next emitted byte
	done      bool
}

// NewPageBuffer returns a PageBuffer cutting rows of columns bytes from src,
// starting at input offset startAt and stopping after stopAfter bytes
// (NoLimit for all).
func NewPageBuffer(src io.Reader, columns, pageSize int, startAt, stopAfter int64) *PageBuffer {
	if stopAfter < 0 {
		stopAfter = NoLimit
	}

	return &PageBuffer{
		src:       src,
		buf:       make([]byte, pageSize+columns-1),
		columns:   columns,
		pageSize:  pageSize,
		skip:      startAt,
		remaining: stopAfter,
	}
}

// Offset returns the input offset of the next byte to be emitted.
func (p *PageBuffer) Offset() int64 {
	return p.offset
}

// Fill performs one read from the source and passes every row it completed
// to emit, in order. It returns io.EOF once the last row has been emitted;
// any other error comes from the source and is returned unchanged.
func (p *PageBuffer) Fill(emit func(Row)) error {
	if p.done || p.remaining == 0 {
		p.done = true
		return io.EOF
	}

	n, err := p.src.Read(p.buf[p.tail : p.tail+p.readSize()])
	if err != nil && err != io.EOF {
		return err
	}
	eof := err == io.EOF

	lo, hi := 0, p.tail+n
	if p.skip > 0 {
		d := min(p.skip, int64(n))
		p.skip -= d
		p.offset += d
		lo = int(d)
	}

	for hi-lo >= p.columns {
		if !p.emitRow(emit, p.buf[lo:lo+p.columns], false) {
			return io.EOF
		}
		lo += p.columns
	}

	if hi > lo && (eof || int64(hi-lo) == p.remaining) {
		p.emitRow(emit, p.buf[lo:hi], true)
		p.done = true

		return io.EOF
	}
	if eof {
		p.done = true
		return io.EOF
	}

	p.tail = copy(p.buf, p.buf[lo:hi])

	return nil
}

// readSize caps a read so that no byte past the StopAfter window is
// consumed from the source.
func (p *PageBuffer) readSize() int {
	if p.remaining < 0 {
		return p.pageSize
	}

	need := p.skip + p.remaining - int64(p.tail)
	if need < int64(p.pageSize) {
		return int(need)
	}

	return p.pageSize
}

// emitRow applies the StopAfter limit to data and emits it. It reports
// whether more rows may follow.
func (p *PageBuffer) emitRow(emit func(Row), data []byte, final bool) bool {
	if p.remaining >= 0 {
		if int64(len(data)) >= p.remaining {
			data = data[:p.remaining]
			final = true
			p.done = true
			p.remaining = 0
		} else {
			p.remaining -= int64(len(data))
		}
	}

	if len(data) > 0 {
		emit(Row{Data: data, Offset: p.offset, Final: final})
		p.offset += int64(len(data))
	}

	return !p.done
}
