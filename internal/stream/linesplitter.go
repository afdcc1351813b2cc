package stream

import "bytes"

// LineSplitter decodes a byte stream incrementally into newline-terminated lines.
//
// Chunks may split anywhere, including inside a multi-byte UTF-8 sequence;
// carrying raw bytes (rather than decoded text) across pushes keeps those
// sequences intact because '\n' never appears inside one.
//
// The carry buffer has no size bound. A stream that never emits a newline
// grows it without limit; the protocol requires every meaningful line to be
// newline-terminated, so this only bites on a misbehaving server.
type LineSplitter struct {
	carry []byte
}

// Push appends chunk to the carry buffer and returns every line it completes.
//
// A trailing '\r' is stripped from each line so CRLF streams parse the same as
// LF streams. The final unterminated segment stays buffered for the next push.
func (s *LineSplitter) Push(chunk []byte) []string {
	s.carry = append(s.carry, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(s.carry, '\n')
		if i < 0 {
			break
		}

		line := s.carry[:i]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		lines = append(lines, string(line))
		s.carry = s.carry[i+1:]
	}

	return lines
}

// Pending reports how many unterminated bytes are currently buffered.
func (s *LineSplitter) Pending() int {
	return len(s.carry)
}

// Close discards any unterminated trailing segment.
//
// The protocol terminates every meaningful line, so an unterminated tail at
// stream end is a truncated frame, not data worth flushing.
func (s *LineSplitter) Close() {
	s.carry = nil
}
