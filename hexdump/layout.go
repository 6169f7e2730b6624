package hexdump

// Layout holds the per-row alignment constants of columnar output.
type Layout struct {
	// LineLength is the width of the byte field, offset label and gutter
	// excluded. Every full row fills it exactly; shorter rows are padded to
	// it so the gutter lines up.
	LineLength int
}

// ComputeLayout derives the Layout for rows of columns bytes split into
// groups of groupSize, each byte taking digitWidth characters.
//
// Every group, including an incomplete last one, is followed by one space,
// so a row whose column count is not a multiple of the group size carries
// one column more than its floor(columns/groupSize) full groups. In
// little-endian rows an incomplete group is padded with blank cells up to
// the group size.
func ComputeLayout(columns, groupSize, digitWidth int, littleEndian bool) Layout {
	groups := (columns + groupSize - 1) / groupSize
	cells := columns
	if littleEndian {
		cells = groups * groupSize
	}

	return Layout{LineLength: digitWidth*cells + groups}
}

func (c *Config) layout() Layout {
	return ComputeLayout(c.Columns, c.GroupSize, c.digitWidth(), c.LittleEndian)
}
