// Package models defines the domain entities shared across the upload scheduling engine.
//
// The package contains three categories of types:
//
// 1. Filesystem entities discovered by directory scans:
//   - [VideoAsset] : A local video file awaiting delivery
//
// 2. Tracking state persisted by the tracking store:
//   - [PlatformStatus] : Delivery state for one (file, platform) pair
//   - [TrackingRecord] : Per-platform statuses for one file
//
// 3. Transient per-run values:
//   - [UploadRequest] / [UploadResult] : One transfer attempt against a platform
//   - [DryRunPreview] : What a run would do, computed without side effects
//
// None of the types here perform I/O; persistence lives in the tracking and history packages.
package models
