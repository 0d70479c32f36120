// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch uploads:
//  1. [PendingListView] : Browse pending videos and their assigned publish times
//  2. [ConfirmView] : Confirm the batch before any network activity
//  3. [UploadView] : Monitor real-time chunk and file progress
//  4. [ResultView] : Display run totals and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the UploadEngine, providing non-blocking status reporting during uploads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
