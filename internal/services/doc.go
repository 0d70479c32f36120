// Package services defines interface Service for uploading videos to remote platforms.
//
// Two implementations exist: [PrimaryService] and [SecondaryService]. Both drive the
// same generalized resumable upload protocol (init, chunked transfer, commit) and
// differ only in endpoint shapes, scheduling windows, side-asset support, and the
// error signatures that identify quota exhaustion. Adding a third platform means
// adding one implementation; the scheduling and tracking logic never changes.
package services
