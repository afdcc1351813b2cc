// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for a streamed reading:
//  1. [SpreadPickView] : Choose a spread layout
//  2. [CardPickView] : Place cards into the spread, with vacate and clear
//  3. [ConfirmView] : Review the picks before the request is sent
//  4. [StreamView] : Watch stage, progress and section updates live
//  5. [ResultView] : Display the finished reading or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Stream snapshots flow through the session's update channel, providing non-blocking status reporting while the service generates the reading.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
