// Package tasks orchestrates batch video uploads with real-time progress reporting.
//
// # Core Operation
//
// [UploadEngine.Run] performs one pass over the clips directory:
//
//  1. Acquires the run lock, snapshots state files, and authenticates every platform
//  2. Scans for pending videos not yet delivered everywhere
//  3. Assigns each video a deterministic publish time from a [schedule.Plan]
//  4. Uploads to every platform the file is still missing from
//  5. Moves fully delivered files to the sent folder
//
// Per-file failures are recorded and the batch continues; quota errors stop
// the batch immediately since they affect the whole account. Dry runs produce
// [models.DryRunPreview] values and touch neither the network nor any state
// file.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
