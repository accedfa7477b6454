// Package playback tracks the media element's clock for a single session.
// The tracker mirrors host playback events and exposes an estimated current
// position plus the freshness data the synchronizer needs to reject stale
// readings.
package playback
