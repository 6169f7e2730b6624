package hexdump

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func reverseBytes(t *testing.T, text string, mode Mode, opts ...Option) ([]byte, error) {
	t.Helper()

	cfg, err := NewConfig(mode, opts...)
	require.NoError(t, err)

	var out bytes.Buffer
	st, err := Reverse(&out, strings.NewReader(text), cfg)
	require.Equal(t, int64(out.Len()), st.BytesWritten)

	return out.Bytes(), err
}

func TestReverseColumnar(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		text string
		want []byte
	}{
		{
			name: "two columns",
			opts: []Option{WithColumns(2)},
			text: "00000000: 4c6f  Lo\n",
			want: []byte{0x4c, 0x6f},
		},
		{
			name: "short final row without newline",
			text: "00000000: 4142 4344 4546 4748  ABCDEFGH\n00000008: 4950                 IP",
			want: []byte("ABCDEFGHIP"),
		},
		{
			name: "different columns and groups",
			opts: []Option{WithColumns(16), WithGroupSize(2)},
			text: "00000000: 6162636465 666768696a 41  abcdefghijA\n" +
				"0000000b: 4243444546 4748494a       BCDEFGHIJ\n",
			want: []byte("abcdefghijABCDEFGHIJ"),
		},
		{
			name: "upper case digits and CRLF",
			text: "00000000: 6F72 65  ore\r\n",
			want: []byte("ore"),
		},
		{
			name: "decimal offsets across a skipped run",
			opts: []Option{WithRadix(RadixDecimal), WithColumns(4)},
			text: "00000000: 0102 0000  ....\n*\n00000012: 0000 0304  ....\n",
			want: []byte{1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 4},
		},
		{
			name: "gutter that looks like hex",
			opts: []Option{WithColumns(4)},
			text: "00000000: 3132 3334  1234\n",
			want: []byte("1234"),
		},
		{
			name: "blank lines are skipped",
			text: "\n00000000: 41  A\n\n",
			want: []byte("A"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reverseBytes(t, tc.text, ModeHex, tc.opts...)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestReverseAutoskip(t *testing.T) {
	text := "00000000: 6162 0000 0000 0000  ab......\n" +
		"00000008: 0000 0000 0000 0000  ........\n" +
		"*\n" +
		"00000020: 0000 0000 0000       ......\n"

	got, err := reverseBytes(t, text, ModeHex, WithColumns(8))
	require.NoError(t, err)
	require.Equal(t, append([]byte("ab"), make([]byte, 36)...), got)
}

func TestReverseLargeGap(t *testing.T) {
	text := "00000000: 00  .\n*\n00100000: 01  .\n"

	cfg, err := NewConfig(ModeHex, WithPageSize(64))
	require.NoError(t, err)

	w := &countingWriter{}
	_, err = Reverse(w, strings.NewReader(text), cfg)
	require.NoError(t, err)

	got := w.buf.Bytes()
	require.Len(t, got, 0x100001)
	require.Equal(t, byte(1), got[len(got)-1])
	require.True(t, allZero(got[:len(got)-1]))
}

func TestReversePlain(t *testing.T) {
	got, err := reverseBytes(t, "4c6f72656d\n", ModePlain)
	require.NoError(t, err)
	require.Equal(t, []byte("Lorem"), got)

	// xxd -p wraps lines; digits may straddle breaks and blanks
	got, err = reverseBytes(t, "4c6f7\n2 65\t6D\r\n", ModePlain)
	require.NoError(t, err)
	require.Equal(t, []byte("Lorem"), got)

	got, err = reverseBytes(t, "01001100\n01101111\n", ModePlain, WithBinaryDigits(true))
	require.NoError(t, err)
	require.Equal(t, []byte("Lo"), got)
}

func TestReverseErrors(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		opts []Option
		text string
		kind error
		line int
	}{
		{
			name: "invalid hex character",
			mode: ModeHex,
			text: "00000000: 4g6f  Lo\n",
			kind: ErrInvalidCharacter,
			line: 1,
		},
		{
			name: "invalid character on a later line",
			mode: ModeHex,
			text: "00000000: 4c6f  Lo\n00000002: 4c-f  L.\n",
			kind: ErrInvalidCharacter,
			line: 2,
		},
		{
			name: "missing offset marker",
			mode: ModeHex,
			text: "4c6f 7265\n",
			kind: ErrFormatMismatch,
			line: 1,
		},
		{
			name: "bad offset",
			mode: ModeHex,
			text: "00000000: 41  A\n0000zz00: 42  B\n",
			kind: ErrFormatMismatch,
			line: 2,
		},
		{
			name: "decimal radix rejects hex offsets",
			mode: ModeHex,
			opts: []Option{WithRadix(RadixDecimal)},
			text: "0000000a: 41  A\n",
			kind: ErrFormatMismatch,
			line: 1,
		},
		{
			name: "truncated byte",
			mode: ModeHex,
			text: "00000000: 414",
			kind: ErrFormatMismatch,
			line: 1,
		},
		{
			name: "skipped run goes backwards",
			mode: ModeHex,
			text: "00000010: 41  A\n*\n00000004: 42  B\n",
			kind: ErrFormatMismatch,
			line: 3,
		},
		{
			name: "line longer than a page",
			mode: ModeHex,
			opts: []Option{WithPageSize(16)},
			text: "00000000: 4142 4344 4546 4748  ABCDEFGH\n",
			kind: ErrFormatMismatch,
			line: 1,
		},
		{
			name: "plain invalid character",
			mode: ModePlain,
			text: "4c6f\n72x5\n",
			kind: ErrInvalidCharacter,
			line: 2,
		},
		{
			name: "plain odd digit count",
			mode: ModePlain,
			text: "4c6",
			kind: ErrFormatMismatch,
			line: 1,
		},
		{
			name: "plain binary rejects hex",
			mode: ModePlain,
			opts: []Option{WithBinaryDigits(true)},
			text: "01002100",
			kind: ErrInvalidCharacter,
			line: 1,
		},
		{
			name: "no bytes decoded",
			mode: ModeHex,
			text: "00000000:                     \n*\n",
			kind: ErrEmptyResult,
		},
		{
			name: "only blanks",
			mode: ModePlain,
			text: " \n\n",
			kind: ErrEmptyResult,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reverseBytes(t, tc.text, tc.mode, tc.opts...)
			require.ErrorIs(t, err, tc.kind)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			if tc.line > 0 {
				require.Equal(t, tc.line, perr.Line)
			}
		})
	}
}

func TestReverseWritesLinesBeforeFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bad digit after good ones",
			text: "00000000: 4865  He\n00000002: 6c6x  l.\n",
			want: "He",
		},
		{
			name: "truncated byte",
			text: "00000000: 4865  He\n00000002: 6c6c 6",
			want: "He",
		},
		{
			name: "first line fails",
			text: "00000000: 48zz  H.\n",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reverseBytes(t, tc.text, ModeHex)
			require.Error(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}

func TestReverseNothingToParse(t *testing.T) {
	_, err := reverseBytes(t, "", ModeHex)
	require.ErrorIs(t, err, ErrNoInput)
	require.NotErrorIs(t, err, ErrEmptyResult)
}

func TestReverseRejectsModes(t *testing.T) {
	for _, cfg := range []Config{
		mustConfig(t, ModeBinary),
		mustConfig(t, ModeCArray),
		mustConfig(t, ModeHex, WithLittleEndian(true)),
	} {
		src := &countingReader{r: strings.NewReader("00000000: 41  A\n")}
		_, err := Reverse(io.Discard, src, cfg)
		require.ErrorIs(t, err, ErrConfigConflict)
		require.Zero(t, src.reads, "nothing may be read before the configuration is checked")
	}
}

func TestReverseShortReads(t *testing.T) {
	text := "00000000: 4c6f 7265 6d20 6970  Lorem ip\n" +
		"00000008: 7375 6d                sum\n"

	cfg, err := NewConfig(ModeHex, WithPageSize(48))
	require.NoError(t, err)

	for name, src := range map[string]io.Reader{
		"one byte": iotest.OneByteReader(strings.NewReader(text)),
		"half":     iotest.HalfReader(strings.NewReader(text)),
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Reverse(&out, src, cfg)
			require.NoError(t, err)
			require.Equal(t, "Lorem ipsum", out.String())
		})
	}
}

func TestReverseReadError(t *testing.T) {
	errBoom := errors.New("boom")
	cfg := mustConfig(t, ModeHex)

	var out bytes.Buffer
	_, err := Reverse(&out, iotest.ErrReader(errBoom), cfg)
	require.ErrorIs(t, err, errBoom)
}

type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}
