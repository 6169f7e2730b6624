package hexdump

import "io"

// Stats reports how far a Dump or Reverse call got. It is filled in even
// when an error is returned; output already written is not rolled back.
type Stats struct {
	BytesRead    int64 // input bytes dumped, or dump text bytes parsed
	BytesWritten int64 // bytes written to the destination
}

// Dump writes the dump of src to dst as described by cfg. It performs one
// write per page read from src.
func Dump(dst io.Writer, src io.Reader, cfg Config) (Stats, error) {
	var st Stats
	if err := cfg.Validate(); err != nil {
		return st, err
	}

	d := newDumper(&cfg)
	pb := NewPageBuffer(src, cfg.Columns, cfg.PageSize, cfg.StartAt, cfg.StopAfter)

	out := d.begin(nil)
	emit := func(row Row) {
		out = d.row(out, row)
	}

	for {
		err := pb.Fill(emit)
		if err != nil && err != io.EOF {
			st.BytesRead = d.total
			return st, err
		}
		if err == io.EOF {
			out = d.end(out)
		}

		if len(out) > 0 {
			n, werr := dst.Write(out)
			st.BytesWritten += int64(n)
			if werr != nil {
				st.BytesRead = d.total
				return st, werr
			}
			out = out[:0]
		}

		if err == io.EOF {
			break
		}
	}
	st.BytesRead = d.total

	return st, nil
}

// dumper carries the running state of one dump between rows.
type dumper struct {
	cfg   *Config
	lay   Layout
	skip  *autoskip // nil unless autoskip is on
	total int64     // bytes formatted so far
}

func newDumper(cfg *Config) *dumper {
	d := &dumper{cfg: cfg, lay: cfg.layout()}
	if cfg.Autoskip {
		d.skip = newAutoskip(cfg.Columns)
	}

	return d
}

func (d *dumper) begin(dst []byte) []byte {
	if d.cfg.Mode == ModeCArray {
		return appendCArrayHeader(dst, d.cfg)
	}

	return dst
}

func (d *dumper) row(dst []byte, row Row) []byte {
	written := d.total
	d.total += int64(len(row.Data))

	switch d.cfg.Mode {
	case ModePlain:
		return appendPlain(dst, d.cfg, row.Data)
	case ModeCArray:
		return appendCArray(dst, d.cfg, row.Data, written)
	}

	if d.skip != nil {
		switch d.skip.step(row, d.cfg.Columns) {
		case skipMarker:
			return append(dst, skipMarkerLine...)
		case skipDrop:
			return dst
		}
	}

	return appendColumnarRow(dst, d.cfg, d.lay, row)
}

func (d *dumper) end(dst []byte) []byte {
	switch d.cfg.Mode {
	case ModePlain:
		if d.total > 0 {
			dst = append(dst, '\n')
		}

		return dst
	case ModeCArray:
		return appendCArrayFooter(dst, d.cfg, d.total)
	}

	if d.skip != nil {
		if row, ok := d.skip.pending(); ok {
			dst = appendColumnarRow(dst, d.cfg, d.lay, row)
		}
	}

	return dst
}
