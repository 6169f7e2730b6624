package hexdump

// appendPlain appends the digit text of data with no separators.
func appendPlain(dst []byte, cfg *Config, data []byte) []byte {
	binary := cfg.digitWidth() == 8
	for _, b := range data {
		dst = appendDigits(dst, b, binary, cfg.Upper)
	}

	return dst
}
