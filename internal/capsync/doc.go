// Package capsync drives caption display for one session: each tick it
// expires, selects, and shows captions against the session's playback clock.
package capsync
