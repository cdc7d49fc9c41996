// Package content implements the time-partitioned post store: windows,
// hot/cold arenas, the blob column, and the timeline that iterates over
// a mutable set of cold arenas in timestamp order.
//
// © 2025 feedline authors. MIT License.
package content

import (
	"errors"
	"fmt"
)

// Uid identifies an author. Cid identifies one piece of content and is
// globally unique across the whole deployment. Timestamp is an opaque
// monotonic counter; callers pick the unit (seconds, millis, ...) as long as
// one Window's duration fits in 32 bits of that unit.
type (
	Uid       = uint32
	Cid       = uint64
	Timestamp = uint64
)

// ErrTimestampOutOfWindow is returned by Window.ToRelative when the supplied
// timestamp does not fall inside the window's half-open interval. The
// original system treated this as a debug-only assertion; this rendition
// always surfaces it as an error, since Go has no separate debug/release
// build mode to hang the alternative "silently truncate" behaviour on.
var ErrTimestampOutOfWindow = errors.New("content: timestamp outside window")

// Window is the half-open time interval [Epoch, Epoch+Duration) owned by one
// arena. A zero-Duration window contains nothing.
type Window struct {
	Epoch    Timestamp
	Duration uint32
}

// NewWindow constructs a Window from an absolute epoch and a duration in the
// same unit as Epoch.
func NewWindow(epoch Timestamp, duration uint32) Window {
	return Window{Epoch: epoch, Duration: duration}
}

// Contains reports whether ts falls inside the half-open interval.
func (w Window) Contains(ts Timestamp) bool {
	return ts >= w.Epoch && ts < w.EndExclusive()
}

// EndExclusive returns the first timestamp no longer inside the window.
func (w Window) EndExclusive() Timestamp {
	return w.Epoch + Timestamp(w.Duration)
}

// ToRelative converts an absolute timestamp into a window-relative u32
// offset. It returns ErrTimestampOutOfWindow if ts is not in [Epoch,
// Epoch+Duration).
func (w Window) ToRelative(ts Timestamp) (uint32, error) {
	if !w.Contains(ts) {
		return 0, fmt.Errorf("%w: ts=%d epoch=%d duration=%d", ErrTimestampOutOfWindow, ts, w.Epoch, w.Duration)
	}
	return uint32(ts - w.Epoch), nil
}

// ToAbsolute converts a window-relative u32 offset back into an absolute
// timestamp. It is always defined, including for rel values the window never
// actually produced via ToRelative (callers are expected to only pass back
// values they received from ToRelative or that are known in-range).
func (w Window) ToAbsolute(rel uint32) Timestamp {
	return w.Epoch + Timestamp(rel)
}
