// Package selection tracks which cards a user has picked for a reading and
// where they sit before the stream is opened.
//
// A shuffled deck snapshot and its [OrientationMap] are computed once per
// session and never change; the [Engine] layers a mutable selection on top in
// one of two modes, both behind the same API:
//
//   - linear: an ordered list of up to N cards, toggled by clicking
//   - positional: a fixed spread of N named slots with a dealing order that
//     differs from the displayed layout, filled at a cursor that is always the
//     lowest unfilled slot
//
// [Engine.Confirm] is the handoff point to the stream: it locks the engine,
// invokes the caller's handler with the finalized cards, and unlocks again
// only if the handler fails, so a failed stream start never costs the user
// their picks.
//
// All mutations happen on the UI goroutine; the engine carries no locking of
// its own.
package selection
