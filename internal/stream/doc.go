// Package stream implements the client side of the reading service's server-push protocol.
//
// The service streams reading generation over a chunked HTTP response using a
// two-line frame grammar: an "event:" line naming the event type followed by a
// "data:" line carrying a JSON payload. A plain event-source client can't be
// used because the gateway requires custom request headers, so the pipeline is
// built by hand in three layers:
//
//  1. [LineSplitter] : bytes in, newline-terminated lines out, with the
//     trailing partial line carried across reads
//  2. [FrameAssembler] : lines in, (type, payload) [Frame] records out
//  3. [Session] : frames in, folded [State] out, one attempt per instance
//
// The layers are pure state machines with no transport dependency, so the
// whole protocol is testable without a live connection. [Session.Run] owns the
// single outbound request and publishes a [State] snapshot after every folded
// frame, mirroring how long-running operations report progress elsewhere in
// the codebase.
package stream
