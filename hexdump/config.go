package hexdump

import "fmt"

// Mode selects the output encoding. It is fixed for a whole run.
type Mode int

const (
	ModeHex    Mode = iota // grouped hex columns with offset and gutter
	ModeBinary             // grouped binary columns with offset and gutter
	ModePlain              // contiguous digits, no offsets or gutter
	ModeCArray             // C array initializer
)

func (m Mode) String() string {
	switch m {
	case ModeHex:
		return "hex"
	case ModeBinary:
		return "binary"
	case ModePlain:
		return "plain"
	case ModeCArray:
		return "c-array"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Radix selects how offset labels are printed and parsed.
type Radix int

const (
	RadixHex Radix = iota
	RadixDecimal
)

const (
	// NoLimit disables the StopAfter byte limit.
	NoLimit int64 = -1

	DefaultPageSize = 4096

	defaultGroupSize             = 2
	defaultGroupSizeLittleEndian = 4
)

// defaultColumns holds the bytes-per-row default of each mode.
var defaultColumns = [...]int{
	ModeHex:    16,
	ModeBinary: 6,
	ModePlain:  30,
	ModeCArray: 12,
}

// Config is the resolved configuration of one Dump or Reverse call.
// Build it with NewConfig; the zero value is not valid.
type Config struct {
	Mode           Mode
	Columns        int  // bytes per row
	GroupSize      int  // bytes per space-separated group
	BinaryDigits   bool // plain and C-array output use binary digits
	Upper          bool // upper case hex digits
	LittleEndian   bool // reverse bytes within each group
	Autoskip       bool // collapse runs of all-zero rows into "*"
	Colorize       bool // ANSI colors, hex columnar output only
	EBCDIC         bool // translate the gutter from EBCDIC
	Radix          Radix
	StartAt        int64 // input bytes skipped before the dump starts
	StopAfter      int64 // input bytes dumped, NoLimit for all
	PositionOffset int64 // added to every printed offset
	SymbolName     string
	Capitalize     bool // upper case SymbolName
	PageSize       int  // bytes per physical read

	groupSet bool
}

// Option configures a Config.
type Option func(*Config) error

// NewConfig returns a validated Config for mode with the mode's defaults,
// modified by opts in order.
func NewConfig(mode Mode, opts ...Option) (Config, error) {
	cfg := Config{
		Mode:      mode,
		StopAfter: NoLimit,
		PageSize:  DefaultPageSize,
	}
	if mode >= ModeHex && mode <= ModeCArray {
		cfg.Columns = defaultColumns[mode]
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.GroupSize = cfg.resolveGroupSize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// WithColumns sets the number of bytes per row.
func WithColumns(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return conflict("columns must be positive, got %d", n)
		}
		c.Columns = n

		return nil
	}
}

// WithGroupSize sets the number of bytes per group. Zero puts the whole row
// in one group, a negative size keeps the mode default.
func WithGroupSize(n int) Option {
	return func(c *Config) error {
		c.GroupSize = n
		c.groupSet = n >= 0

		return nil
	}
}

func WithBinaryDigits(on bool) Option {
	return func(c *Config) error {
		c.BinaryDigits = on
		return nil
	}
}

func WithUpper(on bool) Option {
	return func(c *Config) error {
		c.Upper = on
		return nil
	}
}

func WithLittleEndian(on bool) Option {
	return func(c *Config) error {
		c.LittleEndian = on
		return nil
	}
}

func WithAutoskip(on bool) Option {
	return func(c *Config) error {
		c.Autoskip = on
		return nil
	}
}

func WithColorize(on bool) Option {
	return func(c *Config) error {
		c.Colorize = on
		return nil
	}
}

func WithEBCDIC(on bool) Option {
	return func(c *Config) error {
		c.EBCDIC = on
		return nil
	}
}

func WithRadix(r Radix) Option {
	return func(c *Config) error {
		c.Radix = r
		return nil
	}
}

// WithStartAt skips the first n input bytes.
func WithStartAt(n int64) Option {
	return func(c *Config) error {
		if n < 0 {
			return conflict("start offset must not be negative, got %d", n)
		}
		c.StartAt = n

		return nil
	}
}

// WithStopAfter limits the dump to n input bytes. A negative n removes the
// limit.
func WithStopAfter(n int64) Option {
	return func(c *Config) error {
		if n < 0 {
			n = NoLimit
		}
		c.StopAfter = n

		return nil
	}
}

// WithPositionOffset adds n to every printed offset.
func WithPositionOffset(n int64) Option {
	return func(c *Config) error {
		c.PositionOffset = n
		return nil
	}
}

// WithSymbol sets the C array identifier. It is sanitized into a valid C
// identifier and upper-cased when capitalize is set.
func WithSymbol(name string, capitalize bool) Option {
	return func(c *Config) error {
		c.SymbolName = name
		c.Capitalize = capitalize

		return nil
	}
}

func WithPageSize(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return conflict("page size must be positive, got %d", n)
		}
		c.PageSize = n

		return nil
	}
}

func (c *Config) resolveGroupSize() int {
	bg := c.GroupSize
	switch {
	case !c.groupSet || bg < 0:
		switch {
		case c.Mode == ModeBinary:
			bg = 1
		case c.LittleEndian:
			bg = defaultGroupSizeLittleEndian
		default:
			bg = defaultGroupSize
		}
	case bg == 0:
		bg = c.Columns
	}

	if bg > c.Columns {
		return c.Columns
	}

	return bg
}

// Validate reports ErrConfigConflict for settings that cannot produce a
// dump.
func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	if c.Autoskip && (c.Mode == ModePlain || c.Mode == ModeCArray) {
		return conflict("autoskip cannot be combined with %s output", c.Mode)
	}
	if c.LittleEndian {
		if c.Mode != ModeHex {
			return conflict("little-endian cannot be combined with %s output", c.Mode)
		}
		if !isPowerOfTwo(c.GroupSize) {
			return conflict("number of octets per group must be a power of 2 with little-endian, got %d", c.GroupSize)
		}
	}

	return nil
}

// ValidateReverse reports ErrConfigConflict for dumps that cannot be
// reversed unambiguously.
func (c *Config) ValidateReverse() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	switch {
	case c.LittleEndian:
		return conflict("little-endian dumps cannot be reversed")
	case c.Mode == ModeBinary || c.Mode == ModeCArray:
		return conflict("%s dumps cannot be reversed", c.Mode)
	}

	return nil
}

func (c *Config) validateCommon() error {
	switch {
	case c.Mode < ModeHex || c.Mode > ModeCArray:
		return conflict("unknown mode %d", int(c.Mode))
	case c.Radix != RadixHex && c.Radix != RadixDecimal:
		return conflict("unknown offset radix %d", int(c.Radix))
	case c.Columns <= 0:
		return conflict("columns must be positive, got %d", c.Columns)
	case c.GroupSize <= 0:
		return conflict("group size must be positive, got %d", c.GroupSize)
	case c.PageSize <= 0:
		return conflict("page size must be positive, got %d", c.PageSize)
	case c.StartAt < 0:
		return conflict("start offset must not be negative, got %d", c.StartAt)
	}

	return nil
}

// digitWidth is the number of characters one byte occupies in the byte
// field.
func (c *Config) digitWidth() int {
	if c.Mode == ModeBinary || (c.BinaryDigits && (c.Mode == ModePlain || c.Mode == ModeCArray)) {
		return 8
	}

	return 2
}

// colored reports whether ANSI colors are emitted.
func (c *Config) colored() bool {
	return c.Colorize && c.Mode == ModeHex
}

func isPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
