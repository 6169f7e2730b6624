package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/boxy-pug/ccxxd/hexdump"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	exitFailure   = 1
	exitOpenInput = 2
)

type command struct {
	input  io.Reader // Input file (or stdin)
	output io.Writer
	inName string // input file name, "" for stdin
	revert bool   // -r Reverse operation: convert hex dump into binary
	cfg    hexdump.Config
}

// options mirrors the command-line flags before they are resolved into a
// hexdump.Config.
type options struct {
	autoskip     bool
	bits         bool
	capitalize   bool
	cols         string
	ebcdic       bool
	littleEndian bool
	groupSize    string
	include      bool
	length       string
	name         string
	offset       string
	plain        bool
	revert       bool
	decimal      bool
	seek         string
	upper        bool
	color        string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ccxxd: ")

	cmd, closeFiles, code, err := loadCommand(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Print(err)
		os.Exit(code)
	}
	defer closeFiles()

	if err := cmd.run(); err != nil {
		var perr *hexdump.ParseError
		if errors.As(err, &perr) {
			log.Printf("%s: line %d: %v", displayName(cmd.inName), perr.Line, perr.Err)
		} else {
			log.Print(err)
		}
		closeFiles()
		os.Exit(exitFailure)
	}
}

// loadCommand parses args, opens the input and output files and resolves
// the dump configuration. The returned func closes whatever was opened.
func loadCommand(args []string) (command, func(), int, error) {
	var opts options
	noop := func() {}

	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		return command{}, noop, exitFailure, err
	}

	cmd := command{revert: opts.revert}
	files := fs.Args()
	if len(files) > 2 {
		fs.Usage()
		return cmd, noop, exitFailure, fmt.Errorf("too many args: %v", files)
	}

	var closers []io.Closer
	closeFiles := func() {
		for _, c := range closers {
			c.Close()
		}
		closers = nil
	}

	cmd.input = os.Stdin
	if len(files) > 0 && files[0] != "-" {
		f, err := os.Open(files[0])
		if err != nil {
			return cmd, noop, exitOpenInput, fmt.Errorf("error opening %v as file: %w", files[0], err)
		}
		closers = append(closers, f)
		cmd.input = f
		cmd.inName = files[0]
	}

	out := os.Stdout
	if len(files) > 1 && files[1] != "-" {
		f, err := os.Create(files[1])
		if err != nil {
			closeFiles()
			return cmd, noop, exitFailure, fmt.Errorf("error creating %v: %w", files[1], err)
		}
		closers = append(closers, f)
		out = f
	}
	cmd.output = out

	hexOpts, mode, err := opts.resolve(fs, cmd.inName, out)
	if err != nil {
		closeFiles()
		return cmd, noop, exitFailure, err
	}

	// Seekable inputs are positioned here; the dump only shifts its labels.
	if start := hexOpts.startAt; start > 0 && !cmd.revert {
		if seeker, ok := cmd.input.(io.Seeker); ok {
			if _, err := seeker.Seek(start, io.SeekStart); err == nil {
				hexOpts.list = append(hexOpts.list,
					hexdump.WithStartAt(0),
					hexdump.WithPositionOffset(hexOpts.displayOffset+start))
			}
		}
	}

	cmd.cfg, err = hexdump.NewConfig(mode, hexOpts.list...)
	if err != nil {
		closeFiles()
		return cmd, noop, exitFailure, err
	}

	return cmd, closeFiles, 0, nil
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("ccxxd", flag.ContinueOnError)

	fs.BoolVarP(&opts.autoskip, "autoskip", "a", false, "A single '*' replaces runs of all-zero lines.")
	fs.BoolVarP(&opts.bits, "bits", "b", false, "Binary digit dump instead of hex.")
	fs.BoolVarP(&opts.capitalize, "capitalize", "C", false, "Capitalize the variable name in C include output (-i).")
	fs.StringVarP(&opts.cols, "cols", "c", "", "Number of bytes per line (default 16; -i: 12, -p: 30, -b: 6).")
	fs.BoolVarP(&opts.ebcdic, "ebcdic", "E", false, "Show characters in EBCDIC.")
	fs.BoolVarP(&opts.littleEndian, "little-endian", "e", false, "Print hex output in little-endian order within each group.")
	fs.StringVarP(&opts.groupSize, "group-size", "g", "", "Group output every <bytes> bytes (default 2; -e: 4, -b: 1).")
	fs.BoolVarP(&opts.include, "include", "i", false, "Output in C include file style.")
	fs.StringVarP(&opts.length, "len", "l", "", "Stop after <len> bytes.")
	fs.StringVarP(&opts.name, "name", "n", "", "Variable name used in C include output (-i).")
	fs.StringVarP(&opts.offset, "offset", "o", "", "Add <off> to the displayed file position.")
	fs.BoolVarP(&opts.plain, "plain", "p", false, "Output a plain digit dump.")
	fs.BoolVarP(&opts.revert, "revert", "r", false, "Convert a hex dump back into binary (reverse operation).")
	fs.BoolVarP(&opts.decimal, "decimal", "d", false, "Show offsets in decimal instead of hex.")
	fs.StringVarP(&opts.seek, "seek", "s", "", "Skip <seek> bytes from the start before dumping.")
	fs.BoolVarP(&opts.upper, "upper", "u", false, "Use upper case hex letters.")
	fs.StringVarP(&opts.color, "color", "R", "auto", "Colorize output: never, always or auto.")

	fs.Usage = func() {
		var res strings.Builder
		res.WriteString("ccxxd - A flexible hex dump and reverse tool\n\n")
		res.WriteString(`Description:
  ccxxd displays a hex dump of a file or standard input, similar to the classic xxd tool.
  It supports grouping bytes, custom column widths, little-endian, binary, plain and C include output,
  zero-run skipping, offset and length control, and can also reverse a hex dump back into binary.

  If no file is provided, ccxxd reads from standard input.

`)
		res.WriteString("Usage: ccxxd [options] [infile [outfile]]\n")
		fmt.Fprintln(os.Stderr, res.String())
		fs.PrintDefaults()
	}

	return fs
}

// resolvedOptions is the hexdump option list built from the flags, plus the
// values loadCommand still needs to adjust for seekable input.
type resolvedOptions struct {
	list          []hexdump.Option
	startAt       int64
	displayOffset int64
}

func (o *options) resolve(fs *flag.FlagSet, inName string, out *os.File) (resolvedOptions, hexdump.Mode, error) {
	var res resolvedOptions

	mode := hexdump.ModeHex
	switch {
	case o.include:
		mode = hexdump.ModeCArray
	case o.plain:
		mode = hexdump.ModePlain
	case o.bits:
		mode = hexdump.ModeBinary
	}

	res.list = append(res.list,
		hexdump.WithAutoskip(o.autoskip && !o.revert),
		hexdump.WithBinaryDigits(o.bits && mode != hexdump.ModeBinary),
		hexdump.WithLittleEndian(o.littleEndian),
		hexdump.WithUpper(o.upper),
		hexdump.WithEBCDIC(o.ebcdic),
	)
	if o.decimal {
		res.list = append(res.list, hexdump.WithRadix(hexdump.RadixDecimal))
	}

	if fs.Changed("cols") {
		cols, err := parseNumber("cols", o.cols)
		if err != nil {
			return res, mode, err
		}
		res.list = append(res.list, hexdump.WithColumns(int(cols)))
	}

	if fs.Changed("group-size") {
		g, err := parseNumber("group-size", o.groupSize)
		if err != nil {
			return res, mode, err
		}
		res.list = append(res.list, hexdump.WithGroupSize(int(g)))
	}

	if fs.Changed("len") {
		l, err := parseNumber("len", o.length)
		if err != nil {
			return res, mode, err
		}
		res.list = append(res.list, hexdump.WithStopAfter(l))
	}

	if fs.Changed("offset") {
		off, err := parseNumber("offset", o.offset)
		if err != nil {
			return res, mode, err
		}
		res.displayOffset = off
		res.list = append(res.list, hexdump.WithPositionOffset(off))
	}

	if fs.Changed("seek") {
		s, err := parseNumber("seek", o.seek)
		if err != nil {
			return res, mode, err
		}
		res.startAt = s
		res.list = append(res.list, hexdump.WithStartAt(s))
	}

	if mode == hexdump.ModeCArray {
		name := o.name
		if name == "" && inName != "" {
			name = filepath.Base(inName)
		}
		res.list = append(res.list, hexdump.WithSymbol(name, o.capitalize))
	}

	colorize, err := resolveColor(o.color, out)
	if err != nil {
		return res, mode, err
	}
	res.list = append(res.list, hexdump.WithColorize(colorize && !o.revert))

	return res, mode, nil
}

// resolveColor decides whether to emit ANSI colors. "auto" colors only when
// out is a terminal and NO_COLOR is unset.
func resolveColor(when string, out *os.File) (bool, error) {
	switch when {
	case "never":
		return false, nil
	case "always":
		return true, nil
	case "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return term.IsTerminal(int(out.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: want never, always or auto", when)
	}
}

// parseNumber accepts decimal, 0x hex and 0 octal values.
func parseNumber(flagName, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for --%s: %w", s, flagName, err)
	}

	return n, nil
}

// run performs the dump or the reversal and flushes the output.
func (cmd *command) run() error {
	writer := bufio.NewWriter(cmd.output)

	var err error
	if cmd.revert {
		_, err = hexdump.Reverse(writer, cmd.input, cmd.cfg)
	} else {
		_, err = hexdump.Dump(writer, cmd.input, cmd.cfg)
	}

	// partial output stays visible on failure
	if ferr := writer.Flush(); err == nil {
		err = ferr
	}

	return err
}

func displayName(name string) string {
	if name == "" {
		return "stdin"
	}

	return name
}
