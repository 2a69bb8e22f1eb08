package nmea

// maxSentenceBytes bounds the assembly buffer. NMEA sentences are at most 82
// characters; a buffer growing past this means the stream is desynchronized
// or the line is picking up electrical noise.
const maxSentenceBytes = 120

// Assembler accumulates raw serial bytes into candidate sentence strings.
//
// Feed may be called with arbitrary chunk sizes; the emitted sentences are
// identical whether bytes arrive one at a time or all at once.
type Assembler struct {
	buf []byte
}

// Feed appends b to the internal buffer and returns the candidate sentences
// completed by it. A candidate starts with '$', has at least one payload
// byte, and is terminated by a newline; the terminator and any trailing '\r'
// are stripped. Empty or non-'$' lines are dropped, not errors.
func (a *Assembler) Feed(b []byte) []string {
	var out []string
	for _, c := range b {
		if c == '\n' {
			line := a.buf
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			if len(line) > 1 && line[0] == '$' {
				out = append(out, string(line))
			}
			a.buf = a.buf[:0]
			continue
		}
		if len(a.buf) >= maxSentenceBytes {
			// No terminator in sight; drop the garbage and resync.
			a.buf = a.buf[:0]
		}
		a.buf = append(a.buf, c)
	}
	return out
}
