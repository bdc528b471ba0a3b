// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videoview

// Stats is a snapshot of a View's counters.
type Stats struct {
	// Pushed counts frames and clears stored in the slot.
	Pushed uint64

	// Dropped counts pending items replaced before a tick consumed them.
	Dropped uint64

	// Invalid counts malformed frames rejected at push.
	Invalid uint64

	// Revoked counts pushes after Close.
	Revoked uint64

	Ticks     uint64
	Presented uint64
	Redrawn   uint64
	Cleared   uint64
	Skipped   uint64
	Disabled  uint64

	// Failed counts ticks whose upload, draw or clear failed.
	Failed uint64

	// TransformComputes counts transform recomputations.
	TransformComputes uint64

	Uploads     uint64
	Allocations uint64
	DeviceLost  uint64
	Reinits     uint64
}
