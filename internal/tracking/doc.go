// Package tracking persists per-platform delivery status for every video file.
//
// The [Store] owns the flat JSON tracking file and is its only writer. It decides
// which files in the clips directory still need work and gates relocation of a file
// to the sent directory on every requested platform reporting a successful upload.
package tracking
