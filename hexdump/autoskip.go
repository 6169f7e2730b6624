package hexdump

type skipAction int

const (
	skipPrint  skipAction = iota // print the row
	skipMarker                   // print "*" instead of the row
	skipDrop                     // print nothing
)

const skipMarkerLine = "*\n"

// autoskip tracks a run of all-zero rows. The first row of a run prints,
// the second turns into a marker and the rest are dropped. The last
// suppressed row is kept so it can be printed when the input ends inside a
// run.
type autoskip struct {
	zeroRows int
	held     []byte
	heldOff  int64
	holding  bool
}

func newAutoskip(columns int) *autoskip {
	return &autoskip{held: make([]byte, 0, columns)}
}

func (s *autoskip) step(row Row, columns int) skipAction {
	if row.Final || len(row.Data) < columns || !allZero(row.Data) {
		s.zeroRows = 0
		s.holding = false

		return skipPrint
	}

	s.zeroRows++
	if s.zeroRows == 1 {
		return skipPrint
	}

	s.held = append(s.held[:0], row.Data...)
	s.heldOff = row.Offset
	s.holding = true

	if s.zeroRows == 2 {
		return skipMarker
	}

	return skipDrop
}

// pending returns the suppressed row that ended the input, if any.
func (s *autoskip) pending() (Row, bool) {
	if !s.holding {
		return Row{}, false
	}
	s.holding = false

	return Row{Data: s.held, Offset: s.heldOff, Final: true}, true
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}

	return true
}
