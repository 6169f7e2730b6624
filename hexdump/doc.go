// Package hexdump converts between raw bytes and xxd-style dump text.
//
// Dump reads an io.Reader in fixed-size pages and writes one of four text
// encodings: grouped hex or binary columns with an offset label and an ASCII
// gutter, a plain digit stream, or a C array initializer. Reverse reads
// columnar hex or plain dump text back into bytes, including zero runs that
// were collapsed by autoskip.
//
//	cfg, err := hexdump.NewConfig(hexdump.ModeHex, hexdump.WithColumns(8))
//	if err != nil {
//		return err
//	}
//	if _, err := hexdump.Dump(os.Stdout, f, cfg); err != nil {
//		return err
//	}
//
// Both directions use bounded memory regardless of input size.
package hexdump
