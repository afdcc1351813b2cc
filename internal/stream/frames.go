package stream

import "strings"

// Frame is one (event type, JSON payload) unit extracted from the raw stream.
type Frame struct {
	Type string
	Data []byte
}

// FrameAssembler pairs "event:" and "data:" lines into frames.
//
// An "event:" line sets the current event type, overwriting any prior value
// without emitting. A "data:" line emits one frame immediately when a type is
// set and the payload is non-empty; the service sends exactly one data line
// per event, so the assembler deliberately skips the blank-line batching of
// the general SSE convention. Everything else is ignored.
type FrameAssembler struct {
	eventType string
}

// Feed consumes one line and reports whether it completed a frame.
func (a *FrameAssembler) Feed(line string) (Frame, bool) {
	switch {
	case strings.HasPrefix(line, "event:"):
		a.eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
	case strings.HasPrefix(line, "data:"):
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if a.eventType != "" && payload != "" {
			return Frame{Type: a.eventType, Data: []byte(payload)}, true
		}
	}
	return Frame{}, false
}
